// Package domain contains the core entities of the study assistant (users,
// documents, notes, flashcard sets and cards, quizzes, chat messages) and
// their validation rules. It is independent of storage, transport, and any
// other infrastructure concern.
package domain
