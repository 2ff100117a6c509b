package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"gift-planner-api/middleware"
	"gift-planner-api/models"

	"github.com/gin-gonic/gin"
)

type BacklogHandler struct {
	DB *sql.DB
}

// AddBacklogEntry enregistre manuellement un cadeau déjà offert.
func (h *BacklogHandler) AddBacklogEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.BacklogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ownsRecipient bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM recipients WHERE id = $1 AND user_id = $2)
	`, req.RecipientID, userID).Scan(&ownsRecipient)
	if err != nil || !ownsRecipient {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	var givenDate *time.Time
	if req.GivenDate != "" {
		parsed, err := time.Parse("2006-01-02", req.GivenDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid given_date format, expected YYYY-MM-DD"})
			return
		}
		givenDate = &parsed
	}

	var entry models.GiftGivenBacklog
	err = h.DB.QueryRow(`
		INSERT INTO gift_given_backlog (user_id, recipient_id, gift_name, price, category, given_date, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, userID, req.RecipientID, req.GiftName, req.Price, nullStr(req.Category), givenDate, nullStr(req.Link)).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add backlog entry"})
		return
	}

	entry.UserID = userID
	entry.RecipientID = req.RecipientID
	entry.GiftName = req.GiftName
	entry.Price = req.Price
	entry.Category = req.Category
	entry.GivenDate = givenDate
	entry.Link = req.Link

	c.JSON(http.StatusCreated, entry)
}

func (h *BacklogHandler) GetBacklog(c *gin.Context) {
	userID := middleware.GetUserID(c)
	recipientID := c.Query("recipient_id")

	query := `
		SELECT b.id, b.user_id, b.recipient_id, b.gift_name, b.price,
		       COALESCE(b.category, ''), b.given_date, COALESCE(b.link, ''), b.created_at
		FROM gift_given_backlog b
		WHERE b.user_id = $1`
	args := []interface{}{userID}
	if recipientID != "" {
		query += ` AND b.recipient_id = $2`
		args = append(args, recipientID)
	}
	query += ` ORDER BY b.given_date DESC NULLS LAST, b.created_at DESC`

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch backlog"})
		return
	}
	defer rows.Close()

	entries := []models.GiftGivenBacklog{}
	for rows.Next() {
		var entry models.GiftGivenBacklog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.RecipientID, &entry.GiftName, &entry.Price,
			&entry.Category, &entry.GivenDate, &entry.Link, &entry.CreatedAt); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, entries)
}

func (h *BacklogHandler) DeleteBacklogEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entryID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE FROM gift_given_backlog WHERE id = $1 AND user_id = $2
	`, entryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete backlog entry"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Backlog entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Backlog entry deleted"})
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
