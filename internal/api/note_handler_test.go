package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createNote(t *testing.T, env *testEnv, userID uuid.UUID, documentID *uuid.UUID, title string) NoteResponse {
	t.Helper()

	rec := doJSON(t, env.router(userID), http.MethodPost, "/notes", CreateNoteRequest{
		DocumentID: documentID,
		Title:      title,
		Content:    "Remember to revisit this before the exam.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp NoteResponse
	decodeBody(t, rec, &resp)
	return resp
}

func TestCreateNote(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()

	note := createNote(t, env, userID, nil, "Standalone note")
	assert.Equal(t, "Standalone note", note.Title)
	assert.Nil(t, note.DocumentID)
}

func TestCreateNoteLinkedToDocument(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	doc := createDocument(t, env, userID, "Source material")
	docID := uuid.MustParse(doc.ID)

	note := createNote(t, env, userID, &docID, "Linked note")
	require.NotNil(t, note.DocumentID)
	assert.Equal(t, doc.ID, *note.DocumentID)
}

func TestListNotesFilteredByDocument(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	doc := createDocument(t, env, userID, "Source")
	docID := uuid.MustParse(doc.ID)

	createNote(t, env, userID, &docID, "From the doc")
	createNote(t, env, userID, nil, "Unrelated")

	rec := doJSON(t, env.router(userID), http.MethodGet, "/notes?document_id="+doc.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []NoteResponse
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "From the doc", list[0].Title)
}

func TestListNotesHidesForeignNotesInFilter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	owner := uuid.New()
	doc := createDocument(t, env, owner, "Shared source")
	docID := uuid.MustParse(doc.ID)
	createNote(t, env, owner, &docID, "Owner's note")

	// Filtering by someone else's document yields nothing of theirs.
	rec := doJSON(t, env.router(uuid.New()), http.MethodGet, "/notes?document_id="+doc.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []NoteResponse
	decodeBody(t, rec, &list)
	assert.Empty(t, list)
}

func TestUpdateNoteNotOwned(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	note := createNote(t, env, uuid.New(), nil, "Private")

	title := "Hijacked"
	rec := doJSON(t, env.router(uuid.New()), http.MethodPatch, "/notes/"+note.ID, UpdateNoteRequest{
		Title: &title,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteNote(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := uuid.New()
	note := createNote(t, env, userID, nil, "Temporary")

	rec := doJSON(t, env.router(userID), http.MethodDelete, "/notes/"+note.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, env.router(userID), http.MethodGet, "/notes/"+note.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
