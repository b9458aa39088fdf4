package notes

const noteExistsQuery = "SELECT 1 FROM note WHERE user_id = $1 AND video_id = $2"

const getNoteQuery = `
	SELECT
		id,
		video_id,
		title,
		channel_title,
		thumbnail,
		transcript,
		content,
		created_at,
		updated_at
	FROM note
	WHERE user_id = $1 AND video_id = $2
`

const upsertNoteQuery = `
	INSERT INTO note (
		user_id,
		video_id,
		title,
		channel_title,
		thumbnail,
		transcript,
		content
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (user_id, video_id) DO UPDATE SET
		title = EXCLUDED.title,
		channel_title = EXCLUDED.channel_title,
		thumbnail = EXCLUDED.thumbnail,
		transcript = EXCLUDED.transcript,
		content = EXCLUDED.content,
		updated_at = NOW()
	RETURNING id
`

const deleteNoteQuery = "DELETE FROM note WHERE user_id = $1 AND video_id = $2"

const getUserNotesQuery = `
	SELECT
		id,
		video_id,
		title,
		channel_title,
		thumbnail,
		created_at,
		updated_at,
		COUNT(*) OVER() as total_results
	FROM note
	WHERE user_id = $1
	ORDER BY updated_at DESC, id DESC
	LIMIT $2 OFFSET $3
`
