package posts

import "time"

const (
	DefaultUsername  = "User"
	DefaultUserImage = "https://placekitten.com/100/100"
	MaxImageSize     = 10 * 1024 * 1024
)

type CreatePostRequest struct {
	SmileScore int    `json:"smile_score" validate:"min=0,max=100"`
	Caption    string `json:"caption" validate:"omitempty,max=2200"`
	Username   string `json:"username" validate:"omitempty,min=1,max=64"`
	UserImage  string `json:"user_image" validate:"omitempty,url"`
}

type CreatePostResponse struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"`
	Caption   string    `json:"caption"`
	Timestamp time.Time `json:"timestamp"`
}

type PostResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	UserImage  string    `json:"user_image"`
	Image      string    `json:"image"`
	Caption    string    `json:"caption"`
	Likes      int       `json:"likes"`
	SmileScore int       `json:"smile_score"`
	Timestamp  time.Time `json:"timestamp"`
	TimeAgo    string    `json:"time_ago"`
}

type FeedResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int            `json:"total"`
}
