package models

import "github.com/google/uuid"

// Database schema overview:
// 1. users - accounts, profile and onboarding fields, managed by cookie-based authentication
// 2. refresh_tokens / permanent_tokens - hashed session tokens
// 3. job_listings - postings created by recruiters
// 4. job_applications - a student's application to a listing
// 5. friend_requests - connection requests; an accepted request is a friendship
// 6. messages - direct messages between friends
// 7. interviews - scheduled interviews with an optional video room
// 8. quizzes / quiz_questions / quiz_attempts - AI generated practice quizzes
// 9. resumes - resume versions, including AI improved ones

// Primary keys are assigned here rather than by a database default so the
// same models work against Postgres and SQLite.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
