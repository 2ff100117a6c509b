package handlers

import (
	"database/sql"
	"net/http"

	"gift-planner-api/middleware"
	"gift-planner-api/models"

	"github.com/gin-gonic/gin"
)

type RecipientHandler struct {
	DB *sql.DB
}

func (h *RecipientHandler) CreateRecipient(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var recipient models.Recipient
	err := h.DB.QueryRow(`
		INSERT INTO recipients
			(user_id, name, relationship, age, gender, occupation, bio, hobbies, likes, dislikes, favorite_categories, budget)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, userID, req.Name, req.Relationship, req.Age, req.Gender, req.Occupation,
		req.Bio, req.Hobbies, req.Likes, req.Dislikes, req.FavoriteCategories, req.Budget).
		Scan(&recipient.ID, &recipient.CreatedAt, &recipient.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipient"})
		return
	}

	recipient.UserID = userID
	recipient.Name = req.Name
	recipient.Relationship = req.Relationship
	recipient.Age = req.Age
	recipient.Gender = req.Gender
	recipient.Occupation = req.Occupation
	recipient.Bio = req.Bio
	recipient.Hobbies = req.Hobbies
	recipient.Likes = req.Likes
	recipient.Dislikes = req.Dislikes
	recipient.FavoriteCategories = req.FavoriteCategories
	recipient.Budget = req.Budget

	c.JSON(http.StatusCreated, recipient)
}

func (h *RecipientHandler) GetRecipients(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, relationship, age, gender, occupation,
		       bio, hobbies, likes, dislikes, favorite_categories, budget, created_at, updated_at
		FROM recipients
		WHERE user_id = $1
		ORDER BY name ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipients"})
		return
	}
	defer rows.Close()

	recipients := []models.Recipient{}
	for rows.Next() {
		r, err := scanRecipient(rows)
		if err != nil {
			continue
		}
		recipients = append(recipients, r)
	}

	c.JSON(http.StatusOK, recipients)
}

func (h *RecipientHandler) GetRecipient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	recipientID := c.Param("id")

	row := h.DB.QueryRow(`
		SELECT id, user_id, name, relationship, age, gender, occupation,
		       bio, hobbies, likes, dislikes, favorite_categories, budget, created_at, updated_at
		FROM recipients
		WHERE id = $1 AND user_id = $2
	`, recipientID, userID)

	r, err := scanRecipient(row)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipient"})
		return
	}

	c.JSON(http.StatusOK, r)
}

func (h *RecipientHandler) UpdateRecipient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	recipientID := c.Param("id")

	var req models.RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE recipients
		SET name = $1, relationship = $2, age = $3, gender = $4, occupation = $5,
		    bio = $6, hobbies = $7, likes = $8, dislikes = $9, favorite_categories = $10,
		    budget = $11, updated_at = NOW()
		WHERE id = $12 AND user_id = $13
	`, req.Name, req.Relationship, req.Age, req.Gender, req.Occupation,
		req.Bio, req.Hobbies, req.Likes, req.Dislikes, req.FavoriteCategories,
		req.Budget, recipientID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipient"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipient updated successfully"})
}

func (h *RecipientHandler) DeleteRecipient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	recipientID := c.Param("id")

	// La cascade supprime slots, suggestions, wishlist et historique liés.
	result, err := h.DB.Exec(`
		DELETE FROM recipients WHERE id = $1 AND user_id = $2
	`, recipientID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipient"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipient deleted successfully"})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipient(row rowScanner) (models.Recipient, error) {
	var (
		r                                models.Recipient
		relationship, gender, occupation sql.NullString
		bio, hobbies, likes, dislikes    sql.NullString
		favorites                        sql.NullString
		age                              sql.NullInt64
	)

	err := row.Scan(&r.ID, &r.UserID, &r.Name, &relationship, &age, &gender, &occupation,
		&bio, &hobbies, &likes, &dislikes, &favorites, &r.Budget, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}

	r.Relationship = relationship.String
	r.Gender = gender.String
	r.Occupation = occupation.String
	r.Bio = bio.String
	r.Hobbies = hobbies.String
	r.Likes = likes.String
	r.Dislikes = dislikes.String
	r.FavoriteCategories = favorites.String
	if age.Valid {
		v := int(age.Int64)
		r.Age = &v
	}

	return r, nil
}
