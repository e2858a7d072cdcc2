package entity

import "time"

type Post struct {
	ID         string    `db:"id"`
	Username   string    `db:"username"`
	UserImage  string    `db:"user_image"`
	ImageURL   string    `db:"image_url"`
	Caption    string    `db:"caption"`
	Likes      int       `db:"likes"`
	SmileScore int       `db:"smile_score"`
	CreatedAt  time.Time `db:"created_at"`
}
