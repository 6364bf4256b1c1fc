package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/observability"
	"github.com/joanri79/cine-log/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("connection reset by peer")

func TestFriendService_SearchUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("short query is a no-op", func(t *testing.T) {
		var calls int32
		friends := noopFriendRepo()
		friends.connectedIDsFn = func(context.Context, string) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		}
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

		for _, q := range []string{"", "ab", "  ab  ", "é1"} {
			got := svc.SearchUsers(ctx, q, "me")
			assert.NotNil(t, got)
			assert.Empty(t, got)
		}
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("excludes self and connected users", func(t *testing.T) {
		friends := noopFriendRepo()
		friends.connectedIDsFn = func(context.Context, string) ([]string, error) {
			return []string{"pending-out", "pending-in", "friend"}, nil
		}
		users := noopUserRepo()
		var gotQuery string
		var gotExclude []string
		var gotLimit int
		users.searchFn = func(_ context.Context, q string, exclude []string, limit int) ([]models.User, error) {
			gotQuery, gotExclude, gotLimit = q, exclude, limit
			return []models.User{{ID: "stranger", Nickname: "strange"}}, nil
		}
		svc := NewFriendService(friends, users, noopWatchRepo())

		got := svc.SearchUsers(ctx, "  stra ", "me")
		require.Len(t, got, 1)
		assert.Equal(t, "stranger", got[0].ID)
		assert.Equal(t, "stra", gotQuery)
		assert.ElementsMatch(t, []string{"pending-out", "pending-in", "friend", "me"}, gotExclude)
		assert.Equal(t, SearchPageSize, gotLimit)
	})

	t.Run("store errors degrade to empty", func(t *testing.T) {
		before := testutil.ToFloat64(observability.DegradedReads.WithLabelValues("search_users"))

		friends := noopFriendRepo()
		friends.connectedIDsFn = func(context.Context, string) ([]string, error) { return nil, errStore }
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())
		got := svc.SearchUsers(ctx, "anything", "me")
		assert.NotNil(t, got)
		assert.Empty(t, got)

		users := noopUserRepo()
		users.searchFn = func(context.Context, string, []string, int) ([]models.User, error) { return nil, errStore }
		svc = NewFriendService(noopFriendRepo(), users, noopWatchRepo())
		assert.Empty(t, svc.SearchUsers(ctx, "anything", "me"))

		after := testutil.ToFloat64(observability.DegradedReads.WithLabelValues("search_users"))
		assert.Equal(t, before+2, after)
	})
}

func TestFriendService_SendFriendRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("self request", func(t *testing.T) {
		svc := NewFriendService(noopFriendRepo(), noopUserRepo(), noopWatchRepo())
		_, err := svc.SendFriendRequest(ctx, "me", "me")
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("unknown target", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewFriendService(noopFriendRepo(), users, noopWatchRepo())
		_, err := svc.SendFriendRequest(ctx, "me", "ghost")
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})

	t.Run("inserts pending row requester to target", func(t *testing.T) {
		friends := noopFriendRepo()
		var created models.Friendship
		friends.createFn = func(_ context.Context, f *models.Friendship) error {
			f.ID = 42
			created = *f
			return nil
		}
		friends.getByIDFn = func(_ context.Context, id uint) (*models.Friendship, error) {
			cp := created
			cp.Friend = &models.User{ID: cp.FriendID}
			return &cp, nil
		}
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

		got, err := svc.SendFriendRequest(ctx, "ana", "bob")
		require.NoError(t, err)
		assert.Equal(t, uint(42), got.ID)
		assert.Equal(t, "ana", created.UserID)
		assert.Equal(t, "bob", created.FriendID)
		assert.Equal(t, models.FriendshipStatusPending, created.Status)
		require.NotNil(t, got.Friend)
	})

	t.Run("write failure is surfaced", func(t *testing.T) {
		friends := noopFriendRepo()
		friends.createFn = func(context.Context, *models.Friendship) error {
			return models.NewConflictError("exists", errStore)
		}
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())
		_, err := svc.SendFriendRequest(ctx, "ana", "bob")
		assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	})

	t.Run("reload failure still returns the created row", func(t *testing.T) {
		friends := noopFriendRepo()
		friends.createFn = func(_ context.Context, f *models.Friendship) error {
			f.ID = 7
			return nil
		}
		friends.getByIDFn = func(context.Context, uint) (*models.Friendship, error) { return nil, errStore }
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

		got, err := svc.SendFriendRequest(ctx, "ana", "bob")
		require.NoError(t, err)
		assert.Equal(t, uint(7), got.ID)
	})
}

func TestFriendService_RespondToRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("accept updates status only", func(t *testing.T) {
		friends := noopFriendRepo()
		var gotID uint
		var gotStatus models.FriendshipStatus
		friends.updateStatusFn = func(_ context.Context, id uint, s models.FriendshipStatus) error {
			gotID, gotStatus = id, s
			return nil
		}
		friends.deleteFn = func(context.Context, uint) error {
			t.Fatal("accept must not delete")
			return nil
		}
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())
		require.NoError(t, svc.RespondToRequest(ctx, 3, true))
		assert.Equal(t, uint(3), gotID)
		assert.Equal(t, models.FriendshipStatusAccepted, gotStatus)
	})

	t.Run("reject deletes", func(t *testing.T) {
		friends := noopFriendRepo()
		var deleted uint
		friends.deleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())
		require.NoError(t, svc.RespondToRequest(ctx, 9, false))
		assert.Equal(t, uint(9), deleted)
	})

	t.Run("write failure is surfaced", func(t *testing.T) {
		friends := noopFriendRepo()
		friends.updateStatusFn = func(context.Context, uint, models.FriendshipStatus) error {
			return models.NewInternalError(errStore)
		}
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())
		assert.Error(t, svc.RespondToRequest(ctx, 1, true))
	})

	t.Run("only the recipient may respond", func(t *testing.T) {
		friends := noopFriendRepo()
		friends.getByIDFn = func(context.Context, uint) (*models.Friendship, error) {
			return &models.Friendship{ID: 5, UserID: "ana", FriendID: "bob", Status: models.FriendshipStatusPending}, nil
		}
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

		_, err := svc.RespondAsRecipient(ctx, "ana", 5, true)
		assert.Equal(t, models.CodeForbidden, models.ErrorCode(err))

		got, err := svc.RespondAsRecipient(ctx, "bob", 5, true)
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusAccepted, got.Status)
	})

	t.Run("accepted rows cannot be rejected", func(t *testing.T) {
		friends := noopFriendRepo()
		friends.getByIDFn = func(context.Context, uint) (*models.Friendship, error) {
			return &models.Friendship{ID: 6, UserID: "ana", FriendID: "bob", Status: models.FriendshipStatusAccepted}, nil
		}
		friends.deleteFn = func(context.Context, uint) error {
			t.Fatal("reject of an accepted row must not delete")
			return nil
		}
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

		_, err := svc.RespondAsRecipient(ctx, "bob", 6, false)
		assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

		got, err := svc.RespondAsRecipient(ctx, "bob", 6, true)
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusAccepted, got.Status)
	})
}

func TestFriendService_ListFriendsNormalizesDirection(t *testing.T) {
	ana := &models.User{ID: "ana", Nickname: "ana"}
	bob := &models.User{ID: "bob", Nickname: "bob"}
	cai := &models.User{ID: "cai", Nickname: "cai"}

	friends := noopFriendRepo()
	friends.listAcceptedFn = func(context.Context, string) ([]models.Friendship, error) {
		return []models.Friendship{
			{ID: 1, UserID: "ana", FriendID: "bob", Status: models.FriendshipStatusAccepted, User: ana, Friend: bob},
			{ID: 2, UserID: "cai", FriendID: "ana", Status: models.FriendshipStatusAccepted, User: cai, Friend: ana},
		}, nil
	}
	svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

	got := svc.ListFriends(context.Background(), "ana")
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].ID)
	assert.Equal(t, "cai", got[1].ID)
}

func TestFriendService_ReadsDegrade(t *testing.T) {
	ctx := context.Background()
	friends := noopFriendRepo()
	friends.listAcceptedFn = func(context.Context, string) ([]models.Friendship, error) { return nil, errStore }
	friends.listIncomingFn = func(context.Context, string) ([]models.Friendship, error) { return nil, errStore }
	friends.listOutgoingFn = func(context.Context, string) ([]models.Friendship, error) { return nil, errStore }
	svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

	assert.Equal(t, []models.Profile{}, svc.ListFriends(ctx, "ana"))
	assert.Equal(t, []models.FriendRequest{}, svc.ListIncomingRequests(ctx, "ana"))
	assert.Equal(t, []models.FriendRequest{}, svc.SentRequests(ctx, "ana"))

	overview := svc.Overview(ctx, "ana")
	assert.Empty(t, overview.Friends)
	assert.Empty(t, overview.Requests)
}

func TestFriendService_RemoveFriend(t *testing.T) {
	ctx := context.Background()
	friends := noopFriendRepo()
	var rows int64 = 1
	friends.deletePairFn = func(context.Context, string, string) (int64, error) {
		n := rows
		rows = 0
		return n, nil
	}
	svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

	removed, err := svc.RemoveFriend(ctx, "ana", "bob")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveFriend(ctx, "ana", "bob")
	require.NoError(t, err)
	assert.False(t, removed)

	friends.deletePairFn = func(context.Context, string, string) (int64, error) { return 0, errStore }
	_, err = svc.RemoveFriend(ctx, "ana", "bob")
	assert.Error(t, err)
}

func TestFriendService_FriendsActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("no friends short-circuits before reading watch logs", func(t *testing.T) {
		watch := noopWatchRepo()
		watch.latestForUsersFn = func(context.Context, []string, int) ([]models.WatchLogEntry, error) {
			t.Fatal("watch log store must not be queried without friends")
			return nil, nil
		}
		svc := NewFriendService(noopFriendRepo(), noopUserRepo(), watch)

		got := svc.FriendsActivity(ctx, "ana")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("maps entries with owner and content", func(t *testing.T) {
		friends := noopFriendRepo()
		friends.friendIDsFn = func(context.Context, string) ([]string, error) { return []string{"bob"}, nil }
		watch := noopWatchRepo()
		var gotIDs []string
		var gotLimit int
		at := time.Date(2026, 1, 2, 20, 0, 0, 0, time.UTC)
		watch.latestForUsersFn = func(_ context.Context, ids []string, limit int) ([]models.WatchLogEntry, error) {
			gotIDs, gotLimit = ids, limit
			return []models.WatchLogEntry{{
				ID: 11, UserID: "bob", WatchedAt: at, Rating: 9, Comment: "great",
				User:    &models.User{ID: "bob", Name: "Bob", Nickname: "bobby", Surname: "Marley"},
				Content: &models.Content{Title: "Heat", Type: models.ContentTypeMovie, PosterPath: "/heat.jpg"},
			}}, nil
		}
		svc := NewFriendService(friends, noopUserRepo(), watch)

		got := svc.FriendsActivity(ctx, "ana")
		require.Len(t, got, 1)
		assert.Equal(t, []string{"bob"}, gotIDs)
		assert.Equal(t, ActivityFeedSize, gotLimit)
		assert.Equal(t, uint(11), got[0].ID)
		assert.Equal(t, at, got[0].Timestamp)
		assert.Equal(t, "bobby", got[0].Owner.Nickname)
		assert.Equal(t, "Heat", got[0].Content.Title)
		assert.Equal(t, "/heat.jpg", got[0].Content.PosterRef)
	})

	t.Run("errors in either phase degrade to empty", func(t *testing.T) {
		friends := noopFriendRepo()
		friends.friendIDsFn = func(context.Context, string) ([]string, error) { return nil, errStore }
		svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())
		assert.Equal(t, []models.ActivityItem{}, svc.FriendsActivity(ctx, "ana"))

		friends.friendIDsFn = func(context.Context, string) ([]string, error) { return []string{"bob"}, nil }
		watch := noopWatchRepo()
		watch.latestForUsersFn = func(context.Context, []string, int) ([]models.WatchLogEntry, error) { return nil, errStore }
		svc = NewFriendService(friends, noopUserRepo(), watch)
		assert.Equal(t, []models.ActivityItem{}, svc.FriendsActivity(ctx, "ana"))
	})
}

func TestFriendService_RelationStatus(t *testing.T) {
	ctx := context.Background()
	friends := noopFriendRepo()
	svc := NewFriendService(friends, noopUserRepo(), noopWatchRepo())

	_, err := svc.RelationStatus(ctx, "ana", "ana")
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	got, err := svc.RelationStatus(ctx, "ana", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RelationNone, got.State)

	friends.getBetweenFn = func(context.Context, string, string) (*models.Friendship, error) {
		return &models.Friendship{ID: 4, UserID: "bob", FriendID: "ana", Status: models.FriendshipStatusPending}, nil
	}
	got, err = svc.RelationStatus(ctx, "ana", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RelationPendingReceived, got.State)
	assert.Equal(t, uint(4), got.RequestID)

	got, err = svc.RelationStatus(ctx, "bob", "ana")
	require.NoError(t, err)
	assert.Equal(t, models.RelationPendingSent, got.State)
}

// The following tests run the service against a real store.

func newStoreService(t *testing.T) (*FriendService, func(ids ...string)) {
	t.Helper()
	db := newTestDB(t)
	svc := NewFriendService(
		repository.NewFriendRepository(db),
		repository.NewUserRepository(db),
		repository.NewWatchLogRepository(db),
	)
	return svc, func(ids ...string) { seedUsers(t, db, ids...) }
}

func profileIDs(ps []models.Profile) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFriendService_Scenario(t *testing.T) {
	svc, seed := newStoreService(t)
	seed("alice", "bruno")
	ctx := context.Background()

	req, err := svc.SendFriendRequest(ctx, "alice", "bruno")
	require.NoError(t, err)
	assert.Equal(t, "alice", req.UserID)
	assert.Equal(t, "bruno", req.FriendID)
	assert.Equal(t, models.FriendshipStatusPending, req.Status)

	incoming := svc.ListIncomingRequests(ctx, "bruno")
	require.Len(t, incoming, 1)
	require.NotNil(t, incoming[0].Requester)
	assert.Equal(t, "alice", incoming[0].Requester.ID)
	assert.Empty(t, svc.ListIncomingRequests(ctx, "alice"))

	require.NoError(t, svc.RespondToRequest(ctx, req.ID, true))
	assert.Equal(t, []string{"bruno"}, profileIDs(svc.ListFriends(ctx, "alice")))
	assert.Equal(t, []string{"alice"}, profileIDs(svc.ListFriends(ctx, "bruno")))
	assert.Empty(t, svc.ListIncomingRequests(ctx, "bruno"))

	removed, err := svc.RemoveFriend(ctx, "alice", "bruno")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, svc.ListFriends(ctx, "alice"))
	assert.Empty(t, svc.ListFriends(ctx, "bruno"))
	assert.Empty(t, svc.ListIncomingRequests(ctx, "bruno"))
}

func TestFriendService_SymmetryAndSearchExclusion(t *testing.T) {
	svc, seed := newStoreService(t)
	seed("ulla", "fran", "pedro", "paula", "pablo")
	ctx := context.Background()

	accepted, err := svc.SendFriendRequest(ctx, "fran", "ulla")
	require.NoError(t, err)
	require.NoError(t, svc.RespondToRequest(ctx, accepted.ID, true))
	_, err = svc.SendFriendRequest(ctx, "ulla", "pedro")
	require.NoError(t, err)
	_, err = svc.SendFriendRequest(ctx, "paula", "ulla")
	require.NoError(t, err)

	assert.Contains(t, profileIDs(svc.ListFriends(ctx, "ulla")), "fran")
	assert.Contains(t, profileIDs(svc.ListFriends(ctx, "fran")), "ulla")

	for _, q := range []string{"fran", "pedro", "paula", "example.test", "ulla"} {
		got := profileIDs(svc.SearchUsers(ctx, q, "ulla"))
		assert.NotContains(t, got, "fran", q)
		assert.NotContains(t, got, "pedro", q)
		assert.NotContains(t, got, "paula", q)
		assert.NotContains(t, got, "ulla", q)
	}
	assert.Equal(t, []string{"pablo"}, profileIDs(svc.SearchUsers(ctx, "PAB", "ulla")))
}

func TestFriendService_RejectThenRequestAgain(t *testing.T) {
	svc, seed := newStoreService(t)
	seed("ana", "bea")
	ctx := context.Background()

	first, err := svc.SendFriendRequest(ctx, "ana", "bea")
	require.NoError(t, err)

	_, err = svc.SendFriendRequest(ctx, "bea", "ana")
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	require.NoError(t, svc.RespondToRequest(ctx, first.ID, false))
	assert.Empty(t, svc.ListIncomingRequests(ctx, "bea"))

	again, err := svc.SendFriendRequest(ctx, "ana", "bea")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestFriendService_AcceptChangesOnlyStatus(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db, "ana", "bea")
	repo := repository.NewFriendRepository(db)
	svc := NewFriendService(repo, repository.NewUserRepository(db), repository.NewWatchLogRepository(db))
	ctx := context.Background()

	req, err := svc.SendFriendRequest(ctx, "ana", "bea")
	require.NoError(t, err)
	before, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RespondToRequest(ctx, req.ID, true))
	require.NoError(t, svc.RespondToRequest(ctx, req.ID, true))

	after, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusAccepted, after.Status)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.UserID, after.UserID)
	assert.Equal(t, before.FriendID, after.FriendID)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
}

func TestFriendService_IdempotentRemoval(t *testing.T) {
	svc, seed := newStoreService(t)
	seed("ana", "bea")
	ctx := context.Background()

	req, err := svc.SendFriendRequest(ctx, "bea", "ana")
	require.NoError(t, err)
	require.NoError(t, svc.RespondToRequest(ctx, req.ID, true))

	removed, err := svc.RemoveFriend(ctx, "ana", "bea")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NotContains(t, profileIDs(svc.ListFriends(ctx, "ana")), "bea")

	removed, err = svc.RemoveFriend(ctx, "ana", "bea")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFriendService_ActivityFeedOnStore(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db, "ana", "bea", "cai", "dan")
	svc := NewFriendService(repository.NewFriendRepository(db), repository.NewUserRepository(db), repository.NewWatchLogRepository(db))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		seedWatch(t, db, "bea", int64(100+i), base.Add(time.Duration(i)*time.Hour))
	}
	seedWatch(t, db, "cai", 500, base.Add(48*time.Hour))
	seedWatch(t, db, "dan", 600, base.Add(72*time.Hour))

	assert.Empty(t, svc.FriendsActivity(ctx, "ana"))

	r1, err := svc.SendFriendRequest(ctx, "ana", "bea")
	require.NoError(t, err)
	require.NoError(t, svc.RespondToRequest(ctx, r1.ID, true))
	r2, err := svc.SendFriendRequest(ctx, "cai", "ana")
	require.NoError(t, err)
	require.NoError(t, svc.RespondToRequest(ctx, r2.ID, true))
	_, err = svc.SendFriendRequest(ctx, "ana", "dan")
	require.NoError(t, err)

	feed := svc.FriendsActivity(ctx, "ana")
	require.Len(t, feed, ActivityFeedSize)
	assert.Equal(t, "Cai", feed[0].Owner.Name)
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].Timestamp.After(feed[i-1].Timestamp))
		assert.NotEqual(t, "Dan", feed[i].Owner.Name)
	}
	assert.Equal(t, "Title bea", feed[1].Content.Title)
}

// staleWatchRepo runs hook between the friend-set read and the watch-log read.
type staleWatchRepo struct {
	repository.WatchLogRepository
	hook func()
}

func (r staleWatchRepo) LatestForUsers(ctx context.Context, ids []string, limit int) ([]models.WatchLogEntry, error) {
	r.hook()
	return r.WatchLogRepository.LatestForUsers(ctx, ids, limit)
}

// A friendship removed between the two reads still contributes to that feed.
// Known race: the reads are independent and not wrapped in a transaction.
func TestFriendService_ActivityFeedStaleFriendSet(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db, "ana", "bea")
	seedWatch(t, db, "bea", 1, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	friends := repository.NewFriendRepository(db)
	ctx := context.Background()
	setup := NewFriendService(friends, repository.NewUserRepository(db), repository.NewWatchLogRepository(db))
	req, err := setup.SendFriendRequest(ctx, "ana", "bea")
	require.NoError(t, err)
	require.NoError(t, setup.RespondToRequest(ctx, req.ID, true))

	watch := staleWatchRepo{
		WatchLogRepository: repository.NewWatchLogRepository(db),
		hook: func() {
			_, err := friends.DeletePair(ctx, "ana", "bea")
			require.NoError(t, err)
		},
	}
	svc := NewFriendService(friends, repository.NewUserRepository(db), watch)

	feed := svc.FriendsActivity(ctx, "ana")
	require.Len(t, feed, 1)
	assert.Equal(t, "Bea", feed[0].Owner.Name)
	assert.Empty(t, svc.ListFriends(ctx, "ana"))
}
