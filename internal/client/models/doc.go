// Package models defines the client-side data models mirrored from the quiz
// platform API: identities and their economy, quizzes, shop items, inventory
// entries and statistics. JSON tags match the API wire format.
package models
