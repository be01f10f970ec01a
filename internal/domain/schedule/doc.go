// Package schedule implements the spaced-repetition review scheduler. It is
// pure computation: given a flashcard's current review state and a
// difficulty rating it produces the card's next review state, leaving
// persistence to the caller.
//
// The algorithm is a fixed-interval-by-bucket scheduler, not full SM-2:
// easy pushes the next review out three days, medium one day, hard twelve
// hours. The stored easiness factor is deliberately ignored; it is reserved
// schema for a future SM-2 style weighting.
package schedule
