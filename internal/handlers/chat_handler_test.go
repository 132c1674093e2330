package handlers_test

import (
	"LostFound/internal/model"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_ConsentFlow(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "a@college.edu", "Secr3t!", nil)
	b := env.seedUser(t, "b@college.edu", "Secr3t!", nil)
	c := env.seedUser(t, "c@college.edu", "Secr3t!", nil)
	item := postItem(t, env, b.ID, map[string]any{"title": "Umbrella", "type": "FOUND", "location": "Hall"})

	start := map[string]string{"item_id": item.ID, "other_email": b.Email}
	rr := env.do(t, http.MethodPost, "/api/chat/conversations", start, a.ID)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	conv := decode[model.Conversation](t, rr)
	assert.False(t, conv.Approved)

	rr = env.do(t, http.MethodPost, "/api/chat/conversations", start, a.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, conv.ID, decode[model.Conversation](t, rr).ID)

	base := "/api/chat/conversations/" + conv.ID
	send := func(userID int64, text string) int {
		return env.do(t, http.MethodPost, base+"/messages", map[string]string{"content": text}, userID).Code
	}

	assert.Equal(t, http.StatusCreated, send(a.ID, "Is this yours?"))

	rr = env.do(t, http.MethodPost, base+"/messages", map[string]string{"content": "again"}, a.ID)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Conversation pending approval", errorMessage(t, rr))

	assert.Equal(t, http.StatusForbidden, send(b.ID, "yes"))
	assert.Equal(t, http.StatusForbidden, send(c.ID, "hi"))

	rr = env.do(t, http.MethodPost, base+"/approve", nil, a.ID)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Only the recipient can approve the conversation", errorMessage(t, rr))

	rr = env.do(t, http.MethodPost, base+"/approve", nil, b.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[model.Conversation](t, rr).Approved)

	assert.Equal(t, http.StatusCreated, send(b.ID, "yes, mine"))
	assert.Equal(t, http.StatusCreated, send(a.ID, "come pick it up"))

	rr = env.do(t, http.MethodPost, base+"/block", nil, b.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodPost, base+"/messages", map[string]string{"content": "hello?"}, a.ID)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "You are blocked", errorMessage(t, rr))

	rr = env.do(t, http.MethodPost, base+"/unblock", nil, b.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusCreated, send(a.ID, "hello again"))

	rr = env.do(t, http.MethodGet, base+"/messages", nil, b.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	msgs := decode[[]model.Message](t, rr)
	require.Len(t, msgs, 4)
	assert.Equal(t, "Is this yours?", msgs[0].Content)

	rr = env.do(t, http.MethodGet, base+"/messages", nil, c.ID)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, base+"/read", nil, b.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(3), decode[map[string]int64](t, rr)["marked"])

	rr = env.do(t, http.MethodGet, "/api/chat/conversations", nil, b.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]model.Conversation](t, rr), 1)
}

func TestChat_Errors(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "a@college.edu", "Secr3t!", nil)
	item := postItem(t, env, a.ID, map[string]any{"title": "Bag", "type": "LOST", "location": "Gym"})

	rr := env.do(t, http.MethodPost, "/api/chat/conversations", map[string]string{"item_id": item.ID, "other_email": a.Email}, a.ID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/chat/conversations", map[string]string{"item_id": item.ID, "other_email": "ghost@college.edu"}, a.ID)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/chat/conversations/unknown/messages", map[string]string{"content": "hi"}, a.ID)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/chat/conversations", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
