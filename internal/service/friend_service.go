package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/joanri79/cine-log/internal/middleware"
	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/observability"
	"github.com/joanri79/cine-log/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Social graph limits.
const (
	MinSearchQueryLength = 3
	SearchPageSize       = 10
	ActivityFeedSize     = 10
)

// FriendService implements the social graph: requests, friendships and the
// activity feed of a user's friends.
//
// Reads never fail: a store error is logged and answered with an empty slice.
// Writes return their error to the caller.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	watchRepo  repository.WatchLogRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, watchRepo repository.WatchLogRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		watchRepo:  watchRepo,
	}
}

// SocialOverview is the caller's friends and incoming requests, read together.
type SocialOverview struct {
	Friends  []models.Profile       `json:"friends"`
	Requests []models.FriendRequest `json:"requests"`
}

func degraded(ctx context.Context, op, userID string, err error) {
	middleware.Logger.WarnContext(ctx, "social read degraded to empty result",
		slog.String("operation", op),
		slog.String("user_id", userID),
		slog.String("error", err.Error()),
	)
	observability.RecordDegradedRead(op)
	observability.RecordSocialOperation(op, observability.OutcomeDegraded)
}

// SearchUsers finds profiles by nickname or contact the caller could befriend.
// Anyone already connected to the caller, in either direction and any status, is excluded.
func (s *FriendService) SearchUsers(ctx context.Context, query, currentUserID string) []models.Profile {
	ctx, span := observability.StartSpan(ctx, "friend_service", "SearchUsers")
	defer span.End()

	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinSearchQueryLength {
		return []models.Profile{}
	}

	connected, err := s.friendRepo.ConnectedIDs(ctx, currentUserID)
	if err != nil {
		span.SetError(err)
		degraded(ctx, "search_users", currentUserID, err)
		return []models.Profile{}
	}

	exclude := append(connected, currentUserID)
	users, err := s.userRepo.Search(ctx, q, exclude, SearchPageSize)
	if err != nil {
		span.SetError(err)
		degraded(ctx, "search_users", currentUserID, err)
		return []models.Profile{}
	}

	observability.RecordSocialOperation("search_users", observability.OutcomeOK)
	return models.Profiles(users)
}

// SendFriendRequest inserts a pending row requester -> target. A second row for the
// same pair, in either direction, is rejected by the store with a CONFLICT error.
func (s *FriendService) SendFriendRequest(ctx context.Context, requesterID, targetID string) (*models.Friendship, error) {
	ctx, span := observability.StartSpan(ctx, "friend_service", "SendFriendRequest",
		attribute.String("target_id", targetID))
	defer span.End()

	if strings.TrimSpace(targetID) == "" {
		return nil, models.NewValidationError("Target user is required")
	}
	if requesterID == targetID {
		observability.RecordSocialOperation("send_request", observability.OutcomeRejected)
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		observability.RecordSocialOperation("send_request", observability.OutcomeRejected)
		return nil, err
	}

	friendship := &models.Friendship{
		UserID:   requesterID,
		FriendID: targetID,
		Status:   models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		span.SetError(err)
		outcome := observability.OutcomeError
		if models.ErrorCode(err) == models.CodeConflict {
			outcome = observability.OutcomeRejected
		}
		observability.RecordSocialOperation("send_request", outcome)
		return nil, err
	}
	observability.RecordSocialOperation("send_request", observability.OutcomeOK)

	loaded, err := s.friendRepo.GetByID(ctx, friendship.ID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "reload of new friend request failed",
			slog.Uint64("request_id", uint64(friendship.ID)),
			slog.String("error", err.Error()),
		)
		return friendship, nil
	}
	return loaded, nil
}

// ListIncomingRequests returns pending rows addressed to userID with the requester's profile.
func (s *FriendService) ListIncomingRequests(ctx context.Context, userID string) []models.FriendRequest {
	rows, err := s.friendRepo.ListIncoming(ctx, userID)
	if err != nil {
		degraded(ctx, "list_requests", userID, err)
		return []models.FriendRequest{}
	}

	out := make([]models.FriendRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.IncomingRequest(row))
	}
	return out
}

// SentRequests returns pending rows created by userID with the recipient's profile.
func (s *FriendService) SentRequests(ctx context.Context, userID string) []models.FriendRequest {
	rows, err := s.friendRepo.ListOutgoing(ctx, userID)
	if err != nil {
		degraded(ctx, "sent_requests", userID, err)
		return []models.FriendRequest{}
	}

	out := make([]models.FriendRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.OutgoingRequest(row))
	}
	return out
}

// RespondToRequest accepts or rejects a request. Accepting only flips the status,
// and accepting twice is a no-op update. Rejecting deletes the row so the pair can
// request again later.
func (s *FriendService) RespondToRequest(ctx context.Context, requestID uint, accept bool) error {
	op := "reject_request"
	var err error
	if accept {
		op = "accept_request"
		err = s.friendRepo.UpdateStatus(ctx, requestID, models.FriendshipStatusAccepted)
	} else {
		err = s.friendRepo.Delete(ctx, requestID)
	}

	if err != nil {
		observability.RecordSocialOperation(op, observability.OutcomeError)
		return err
	}
	observability.RecordSocialOperation(op, observability.OutcomeOK)
	return nil
}

// RespondAsRecipient is RespondToRequest guarded so only the request's recipient
// may answer it. It returns the row as it was before a reject, or with its new
// status after an accept.
func (s *FriendService) RespondAsRecipient(ctx context.Context, userID string, requestID uint, accept bool) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if friendship.FriendID != userID {
		observability.RecordSocialOperation("respond_request", observability.OutcomeRejected)
		return nil, models.NewForbiddenError("You can only respond to friend requests sent to you")
	}
	// Only pending rows may be rejected; accepting an accepted row is a no-op.
	if !accept && friendship.Status != models.FriendshipStatusPending {
		observability.RecordSocialOperation("respond_request", observability.OutcomeRejected)
		return nil, models.NewConflictError("Friend request is no longer pending", nil)
	}

	if err := s.RespondToRequest(ctx, requestID, accept); err != nil {
		return nil, err
	}
	if accept {
		friendship.Status = models.FriendshipStatusAccepted
	}
	return friendship, nil
}

// ListFriends returns the other party of every accepted row touching userID.
func (s *FriendService) ListFriends(ctx context.Context, userID string) []models.Profile {
	rows, err := s.friendRepo.ListAccepted(ctx, userID)
	if err != nil {
		degraded(ctx, "list_friends", userID, err)
		return []models.Profile{}
	}

	out := make([]models.Profile, 0, len(rows))
	for i := range rows {
		other := rows[i].OtherParty(userID)
		if other == nil {
			continue
		}
		out = append(out, other.Profile())
	}
	return out
}

// RemoveFriend deletes the pair's row whatever its direction or status. Removing a
// pair with no row is not an error; removed reports whether a row went away.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID string) (removed bool, err error) {
	n, err := s.friendRepo.DeletePair(ctx, userID, friendID)
	if err != nil {
		observability.RecordSocialOperation("remove_friend", observability.OutcomeError)
		return false, err
	}
	observability.RecordSocialOperation("remove_friend", observability.OutcomeOK)
	return n > 0, nil
}

// RelationStatus classifies the pair {userID, otherID} from userID's side.
func (s *FriendService) RelationStatus(ctx context.Context, userID, otherID string) (*models.RelationStatus, error) {
	if userID == otherID {
		return nil, models.NewValidationError("Cannot check friendship status with yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, err
	}

	friendship, err := s.friendRepo.GetBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	status := &models.RelationStatus{State: friendship.StateFor(userID)}
	if friendship != nil && friendship.Status == models.FriendshipStatusPending {
		status.RequestID = friendship.ID
	}
	return status, nil
}

// FriendsActivity returns the latest watch-log entries of userID's accepted friends.
//
// The friend set and the entries are two separate reads; a friendship that changes
// between them may be reflected in one and not the other.
func (s *FriendService) FriendsActivity(ctx context.Context, userID string) []models.ActivityItem {
	ctx, span := observability.StartSpan(ctx, "friend_service", "FriendsActivity")
	defer span.End()

	friendIDs, err := s.friendRepo.FriendIDs(ctx, userID)
	if err != nil {
		span.SetError(err)
		degraded(ctx, "friends_activity", userID, err)
		return []models.ActivityItem{}
	}
	if len(friendIDs) == 0 {
		return []models.ActivityItem{}
	}

	entries, err := s.watchRepo.LatestForUsers(ctx, friendIDs, ActivityFeedSize)
	if err != nil {
		span.SetError(err)
		degraded(ctx, "friends_activity", userID, err)
		return []models.ActivityItem{}
	}

	items := make([]models.ActivityItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.ActivityItemFrom(e))
	}
	return items
}

// Overview reads the friend list and incoming requests in parallel.
func (s *FriendService) Overview(ctx context.Context, userID string) *SocialOverview {
	var (
		g        errgroup.Group
		friends  []models.Profile
		requests []models.FriendRequest
	)
	g.Go(func() error {
		friends = s.ListFriends(ctx, userID)
		return nil
	})
	g.Go(func() error {
		requests = s.ListIncomingRequests(ctx, userID)
		return nil
	})
	_ = g.Wait()

	return &SocialOverview{Friends: friends, Requests: requests}
}
