package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorykeeper/memorykeeper/internal/profile"
	"github.com/memorykeeper/memorykeeper/internal/version"
	"github.com/memorykeeper/memorykeeper/store"
	"github.com/memorykeeper/memorykeeper/store/db"
)

func newTestStore(t *testing.T, mode string) *store.Store {
	t.Helper()
	ctx := context.Background()

	p := &profile.Profile{
		Mode:    mode,
		Driver:  "sqlite",
		DSN:     filepath.Join(t.TempDir(), "memorykeeper_test.db"),
		Version: version.GetCurrentVersion(mode),
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)

	st := store.New(driver, p)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func createTestUser(t *testing.T, st *store.Store) *store.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), &store.User{
		UID:            "keeper",
		Name:           "Alex",
		Age:            72,
		Theme:          "nostalgic",
		Plan:           "free",
		MemoryStrength: 50,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	return user
}

func TestDemoModeSeedsData(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "demo")

	uid := "demo-user"
	user, err := st.GetUser(ctx, &store.FindUser{UID: &uid})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Alex", user.Name)
	assert.Equal(t, int32(75), user.MemoryStrength)

	memories, err := st.ListMemories(ctx, &store.FindMemory{CreatorID: &user.ID})
	require.NoError(t, err)
	assert.Len(t, memories, 3)

	members, err := st.ListFamilyMembers(ctx, &store.FindFamilyMember{OwnerID: &user.ID})
	require.NoError(t, err)
	assert.Len(t, members, 3)

	messages, err := st.ListChatMessages(ctx, &store.FindChatMessage{OwnerID: &user.ID})
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "prod")
	require.NoError(t, st.Migrate(ctx))
}

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "prod")
	user := createTestUser(t, st)

	uid := "keeper"
	found, err := st.GetUser(ctx, &store.FindUser{UID: &uid})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	name := "Alexandra"
	strength := int32(60)
	updated, err := st.UpdateUser(ctx, &store.UpdateUser{ID: user.ID, Name: &name, MemoryStrength: &strength})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", updated.Name)
	assert.Equal(t, int32(60), updated.MemoryStrength)
	assert.Equal(t, int32(72), updated.Age, "unset fields keep their values")

	// The cache must serve the updated row.
	found, err = st.GetUser(ctx, &store.FindUser{UID: &uid})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", found.Name)

	require.NoError(t, st.DeleteUser(ctx, &store.DeleteUser{ID: user.ID}))
	users, err := st.ListUsers(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "prod")
	user := createTestUser(t, st)

	first, err := st.CreateMemory(ctx, &store.Memory{
		UID:       "m1",
		CreatorID: user.ID,
		Content:   "I remember my first bicycle.",
		Tags:      []string{"childhood", "bicycle"},
	})
	require.NoError(t, err)
	second, err := st.CreateMemory(ctx, &store.Memory{
		UID:       "m2",
		CreatorID: user.ID,
		Content:   "Baking pies with my grandmother.",
		Tags:      []string{"family"},
	})
	require.NoError(t, err)

	list, err := st.ListMemories(ctx, &store.FindMemory{CreatorID: &user.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, []string{"childhood", "bicycle"}, list[1].Tags)

	tag := "family"
	tagged, err := st.ListMemories(ctx, &store.FindMemory{CreatorID: &user.ID, Tag: &tag})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, second.ID, tagged[0].ID)

	image := "data:image/png;base64,aGk="
	require.NoError(t, st.UpdateMemory(ctx, &store.UpdateMemory{ID: first.ID, Image: &image}))
	got, err := st.GetMemory(ctx, &store.FindMemory{ID: &first.ID})
	require.NoError(t, err)
	require.NotNil(t, got.Image)
	assert.Equal(t, image, *got.Image)

	require.NoError(t, st.DeleteMemory(ctx, &store.DeleteMemory{ID: first.ID}))
	assert.Error(t, st.DeleteMemory(ctx, &store.DeleteMemory{ID: first.ID}), "double delete reports not found")
}

func TestChatMessageCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "prod")
	user := createTestUser(t, st)

	text := "Remember the beach?"
	message, err := st.CreateChatMessage(ctx, &store.ChatMessage{
		UID:        "c1",
		OwnerID:    user.ID,
		SenderName: "Anne",
		Text:       &text,
	})
	require.NoError(t, err)

	reactions := map[string][]string{"❤️": {"Alex"}}
	edited := "Remember the beach in '82?"
	yes := true
	updated, err := st.UpdateChatMessage(ctx, &store.UpdateChatMessage{
		ID:        message.ID,
		Text:      &edited,
		Edited:    &yes,
		Reactions: reactions,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Text)
	assert.Equal(t, edited, *updated.Text)
	assert.True(t, updated.Edited)
	assert.Equal(t, reactions, updated.Reactions)

	require.NoError(t, st.DeleteChatMessage(ctx, &store.DeleteChatMessage{ID: message.ID}))
	messages, err := st.ListChatMessages(ctx, &store.FindChatMessage{OwnerID: &user.ID})
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFamilyMemberCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "prod")
	user := createTestUser(t, st)

	member, err := st.CreateFamilyMember(ctx, &store.FamilyMember{
		UID:        "f1",
		OwnerID:    user.ID,
		Name:       "Anne (Gran)",
		Permission: "contribute",
	})
	require.NoError(t, err)

	members, err := st.ListFamilyMembers(ctx, &store.FindFamilyMember{OwnerID: &user.ID})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, member.ID, members[0].ID)

	require.NoError(t, st.DeleteFamilyMember(ctx, &store.DeleteFamilyMember{ID: member.ID}))
	assert.Error(t, st.DeleteFamilyMember(ctx, &store.DeleteFamilyMember{ID: member.ID}))
}

func TestGameResults(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "prod")
	user := createTestUser(t, st)

	for i, score := range []int32{100, 80} {
		_, err := st.CreateGameResult(ctx, &store.GameResult{
			SessionID:      string(rune('a' + i)),
			UserID:         user.ID,
			GameType:       "match",
			Difficulty:     "medium",
			Score:          score,
			StrengthBefore: 50,
			StrengthAfter:  55,
		})
		require.NoError(t, err)
	}

	results, err := st.ListGameResults(ctx, &store.FindGameResult{UserID: &user.ID})
	require.NoError(t, err)
	require.Len(t, results, 2)

	gameType := "quiz"
	quizOnly, err := st.ListGameResults(ctx, &store.FindGameResult{UserID: &user.ID, GameType: &gameType})
	require.NoError(t, err)
	assert.Empty(t, quizOnly)
}
