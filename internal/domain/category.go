package domain

// Category labels tickets by topic. Deleting a category detaches it from
// dependent tickets instead of cascading.
type Category struct {
	ID          string
	Name        string
	Description string
}
