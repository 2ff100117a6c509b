package models

import "time"

// Recipient est la personne à qui on offre un cadeau.
// Le champ budget est la priorité la plus haute de la chaîne de résolution.
type Recipient struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Name               string    `json:"name" binding:"required"`
	Relationship       string    `json:"relationship,omitempty"`
	Age                *int      `json:"age,omitempty"`
	Gender             string    `json:"gender,omitempty"`
	Occupation         string    `json:"occupation,omitempty"`
	Bio                string    `json:"bio,omitempty"`
	Hobbies            string    `json:"hobbies,omitempty"`
	Likes              string    `json:"likes,omitempty"`
	Dislikes           string    `json:"dislikes,omitempty"`
	FavoriteCategories string    `json:"favorite_categories,omitempty"`
	Budget             *float64  `json:"budget,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type RecipientRequest struct {
	Name               string   `json:"name" binding:"required"`
	Relationship       string   `json:"relationship"`
	Age                *int     `json:"age"`
	Gender             string   `json:"gender"`
	Occupation         string   `json:"occupation"`
	Bio                string   `json:"bio"`
	Hobbies            string   `json:"hobbies"`
	Likes              string   `json:"likes"`
	Dislikes           string   `json:"dislikes"`
	FavoriteCategories string   `json:"favorite_categories"`
	Budget             *float64 `json:"budget"`
}
