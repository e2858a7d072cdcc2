package postRepository

const (
	queryCreatePost = `
		INSERT INTO posts (
			id,
			username,
			user_image,
			image_url,
			caption,
			likes,
			smile_score,
			created_at
		) VALUES (
			:id,
			:username,
			:user_image,
			:image_url,
			:caption,
			:likes,
			:smile_score,
			NOW()
		)
		RETURNING created_at
	`

	queryGetPostByID = `
		SELECT
			id,
			username,
			user_image,
			image_url,
			caption,
			likes,
			smile_score,
			created_at
		FROM posts
		WHERE id = :id
	`

	queryGetAllPosts = `
		SELECT
			id,
			username,
			user_image,
			image_url,
			caption,
			likes,
			smile_score,
			created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`
)
