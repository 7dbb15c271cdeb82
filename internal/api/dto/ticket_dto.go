package dto

import (
	"time"

	"github.com/quiktik/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	CategoryID  *string               `json:"category_id"`
}

// UpdateTicketRequest carries partial ticket changes.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	CategoryID  *string                `json:"category_id"`
}

// AssignTicketRequest payload. Both fields nil clears the assignment.
type AssignTicketRequest struct {
	AssignedTo     *string `json:"assigned_to"`
	AssignedToTeam *string `json:"assigned_to_team"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// UpdateCommentRequest payload.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// TicketSummary response.
type TicketSummary struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Status         domain.TicketStatus   `json:"status"`
	StatusLabel    string                `json:"status_label"`
	Priority       domain.TicketPriority `json:"priority"`
	PriorityLabel  string                `json:"priority_label"`
	CategoryID     *string               `json:"category_id"`
	CreatedBy      string                `json:"created_by"`
	AssignedTo     *string               `json:"assigned_to"`
	AssignedToTeam *string               `json:"assigned_to_team"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info with its comment thread.
type TicketDetailResponse struct {
	TicketSummary
	Description string            `json:"description"`
	Comments    []CommentResponse `json:"comments"`
}

// CommentResponse represents one discussion entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectTicketSummary renders the list shape of a ticket.
func ProjectTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:             ticket.ID,
		Title:          ticket.Title,
		Status:         ticket.Status,
		StatusLabel:    ticket.Status.Label(),
		Priority:       ticket.Priority,
		PriorityLabel:  ticket.Priority.Label(),
		CategoryID:     ticket.CategoryID,
		CreatedBy:      ticket.CreatedBy,
		AssignedTo:     ticket.AssignedTo,
		AssignedToTeam: ticket.AssignedToTeam,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

// ProjectTicketSummaries renders a ticket list.
func ProjectTicketSummaries(tickets []domain.Ticket) []TicketSummary {
	out := make([]TicketSummary, 0, len(tickets))
	for i := range tickets {
		out = append(out, ProjectTicketSummary(&tickets[i]))
	}
	return out
}

// ProjectTicketDetail renders a ticket with its comments.
func ProjectTicketDetail(ticket *domain.Ticket, comments []domain.Comment) TicketDetailResponse {
	return TicketDetailResponse{
		TicketSummary: ProjectTicketSummary(ticket),
		Description:   ticket.Description,
		Comments:      ProjectComments(comments),
	}
}

// ProjectComment renders one comment.
func ProjectComment(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// ProjectComments renders a comment thread.
func ProjectComments(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, ProjectComment(&comments[i]))
	}
	return out
}
