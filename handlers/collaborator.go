package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"gift-planner-api/middleware"
	"gift-planner-api/models"
	"gift-planner-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CollaboratorHandler struct {
	DB    *sql.DB
	Email *services.EmailService
}

// InviteCollaborator envoie une invitation par email avec un rôle.
func (h *CollaboratorHandler) InviteCollaborator(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")

	var isOwner bool
	err := h.DB.QueryRow(`SELECT user_id = $1 FROM events WHERE id = $2`, userID, eventID).Scan(&isOwner)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only owner can invite collaborators"})
		return
	}

	var req models.InvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var alreadyCollaborator bool
	err = h.DB.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM collaborators col
			INNER JOIN users u ON col.user_id = u.id
			WHERE col.event_id = $1 AND u.email = $2
		)
	`, eventID, req.Email).Scan(&alreadyCollaborator)
	if err == nil && alreadyCollaborator {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a collaborator"})
		return
	}

	var pendingInvitation bool
	err = h.DB.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE event_id = $1 AND email = $2 AND status = 'pending' AND expires_at > NOW()
		)
	`, eventID, req.Email).Scan(&pendingInvitation)
	if err == nil && pendingInvitation {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation already sent"})
		return
	}

	token := uuid.New().String()
	expiresAt := time.Now().Add(7 * 24 * time.Hour)

	var invitationID string
	err = h.DB.QueryRow(`
		INSERT INTO invitations (event_id, email, role, invited_by, token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, eventID, req.Email, req.Role, userID, token, expiresAt).Scan(&invitationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	var eventName, inviterName string
	err = h.DB.QueryRow(`
		SELECT e.name, u.name
		FROM events e, users u
		WHERE e.id = $1 AND u.id = $2
	`, eventID, userID).Scan(&eventName, &inviterName)
	if err != nil {
		inviterName = "A user"
		eventName = "an event"
	}

	if err := h.Email.SendCollaborationInvite(req.Email, inviterName, eventName, req.Role, token); err != nil {
		c.JSON(http.StatusCreated, gin.H{
			"id":      invitationID,
			"token":   token,
			"message": "Invitation created but email failed to send",
			"warning": "Please share the invitation link manually",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      invitationID,
		"message": "Invitation sent successfully",
	})
}

func (h *CollaboratorHandler) GetCollaborators(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")

	hasAccess, err := checkEventAccess(c.Request.Context(), h.DB, eventID, userID)
	if err != nil || !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT col.id, col.event_id, col.user_id, col.role, col.status, col.created_at, col.updated_at,
		       u.name, u.email
		FROM collaborators col
		INNER JOIN users u ON col.user_id = u.id
		WHERE col.event_id = $1
		ORDER BY col.created_at ASC
	`, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collaborators"})
		return
	}
	defer rows.Close()

	collaborators := []models.Collaborator{}
	for rows.Next() {
		var col models.Collaborator
		if err := rows.Scan(&col.ID, &col.EventID, &col.UserID, &col.Role, &col.Status,
			&col.CreatedAt, &col.UpdatedAt, &col.UserName, &col.UserEmail); err != nil {
			continue
		}
		collaborators = append(collaborators, col)
	}

	c.JSON(http.StatusOK, collaborators)
}

// AcceptInvitation transforme l'invitation en collaborateur accepté.
func (h *CollaboratorHandler) AcceptInvitation(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var inv models.Invitation
	var userEmail string
	err := h.DB.QueryRow(`
		SELECT i.id, i.event_id, i.email, i.role, i.status, i.expires_at,
		       u.email AS user_email
		FROM invitations i, users u
		WHERE i.token = $1 AND u.id = $2
	`, req.Token, userID).Scan(&inv.ID, &inv.EventID, &inv.Email, &inv.Role, &inv.Status, &inv.ExpiresAt, &userEmail)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitation"})
		return
	}

	if inv.Status != "pending" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation already " + inv.Status})
		return
	}

	if time.Now().After(inv.ExpiresAt) {
		h.DB.Exec(`UPDATE invitations SET status = 'expired' WHERE id = $1`, inv.ID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation has expired"})
		return
	}

	if userEmail != inv.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "This invitation is for a different email address"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO collaborators (event_id, user_id, role, status)
		VALUES ($1, $2, $3, 'accepted')
		ON CONFLICT (event_id, user_id) DO UPDATE SET role = $3, status = 'accepted', updated_at = NOW()
	`, inv.EventID, userID, inv.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add collaborator"})
		return
	}

	if _, err := tx.Exec(`UPDATE invitations SET status = 'accepted', updated_at = NOW() WHERE id = $1`, inv.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invitation"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Invitation accepted successfully",
		"event_id": inv.EventID,
		"role":     inv.Role,
	})
}

func (h *CollaboratorHandler) DeclineInvitation(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE invitations i
		SET status = 'declined', updated_at = NOW()
		FROM users u
		WHERE i.token = $1 AND i.status = 'pending' AND u.id = $2 AND u.email = i.email
	`, req.Token, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline invitation"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found or already processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation declined"})
}

func (h *CollaboratorHandler) GetInvitations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")

	hasAccess, err := checkEventAccess(c.Request.Context(), h.DB, eventID, userID)
	if err != nil || !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT i.id, i.email, i.role, i.status, i.expires_at, i.created_at, u.name AS inviter_name
		FROM invitations i
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.event_id = $1
		ORDER BY i.created_at DESC
	`, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}
	defer rows.Close()

	invitations := []map[string]interface{}{}
	for rows.Next() {
		var inv models.Invitation
		var inviterName sql.NullString
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.Role, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt, &inviterName); err != nil {
			continue
		}

		invMap := map[string]interface{}{
			"id":         inv.ID,
			"email":      inv.Email,
			"role":       inv.Role,
			"status":     inv.Status,
			"expires_at": inv.ExpiresAt,
			"created_at": inv.CreatedAt,
		}
		if inviterName.Valid {
			invMap["inviter_name"] = inviterName.String
		}
		invitations = append(invitations, invMap)
	}

	c.JSON(http.StatusOK, invitations)
}

func (h *CollaboratorHandler) RemoveCollaborator(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")
	collaboratorUserID := c.Param("user_id")

	var isOwner bool
	err := h.DB.QueryRow(`SELECT user_id = $1 FROM events WHERE id = $2`, userID, eventID).Scan(&isOwner)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only owner can remove collaborators"})
		return
	}

	if collaboratorUserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owner cannot be removed"})
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM collaborators WHERE event_id = $1 AND user_id = $2
	`, eventID, collaboratorUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove collaborator"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collaborator not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed successfully"})
}
