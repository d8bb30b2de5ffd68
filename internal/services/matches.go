package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/types"
)

const recentActivityWindow = 7 * 24 * time.Hour

// MatchView joins a match row with the partner it points at.
type MatchView struct {
	Match          *types.Match   `json:"match"`
	Partner        *types.User    `json:"partner"`
	PartnerProfile *types.Profile `json:"partner_profile"`
}

// MatchListQuery extends the repo filter with joins that only the
// service can evaluate.
type MatchListQuery struct {
	Status   string
	MinScore int
	Sort     string
	// Category filters on the partner's product type.
	Category string
	// ActiveThisWeek keeps only partners active in the last seven days.
	ActiveThisWeek bool
}

type MatchService interface {
	List(ctx context.Context, userID uuid.UUID, query MatchListQuery) ([]*MatchView, error)
	// Get returns the match only to its owning user.
	Get(ctx context.Context, userID, matchID uuid.UUID) (*MatchView, error)
}

type matchService struct {
	db          *gorm.DB
	log         *logger.Logger
	matchRepo   repos.MatchRepo
	userRepo    repos.UserRepo
	profileRepo repos.ProfileRepo
	now         func() time.Time
}

func NewMatchService(db *gorm.DB, log *logger.Logger, matchRepo repos.MatchRepo, userRepo repos.UserRepo, profileRepo repos.ProfileRepo) MatchService {
	return &matchService{
		db:          db,
		log:         log,
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

func (ms *matchService) List(ctx context.Context, userID uuid.UUID, query MatchListQuery) ([]*MatchView, error) {
	matches, err := ms.matchRepo.ListByUserID(ctx, nil, userID, repos.MatchListFilter{
		Status:   query.Status,
		MinScore: query.MinScore,
		Sort:     query.Sort,
	})
	if err != nil {
		return nil, err
	}

	views, err := ms.join(ctx, matches)
	if err != nil {
		return nil, err
	}

	if query.Category != "" {
		filtered := views[:0]
		for _, v := range views {
			if v.PartnerProfile.ProductType != nil &&
				strings.EqualFold(*v.PartnerProfile.ProductType, query.Category) {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}
	if query.ActiveThisWeek {
		cutoff := ms.now().UTC().Add(-recentActivityWindow)
		filtered := views[:0]
		for _, v := range views {
			if v.Partner.LastActiveAt != nil && !v.Partner.LastActiveAt.Before(cutoff) {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	// Activity ordering needs the partner row, so it is applied after
	// the join rather than in SQL.
	if query.Sort == "activity" {
		sort.SliceStable(views, func(i, j int) bool {
			return lastActive(views[i].Partner).After(lastActive(views[j].Partner))
		})
	}

	return views, nil
}

func (ms *matchService) Get(ctx context.Context, userID, matchID uuid.UUID) (*MatchView, error) {
	match, err := ms.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, apierr.NotFound("match_not_found", fmt.Errorf("no match with id %s", matchID))
	}
	if match.UserID != userID && match.PartnerID != userID {
		return nil, apierr.Forbidden("match_not_owned", fmt.Errorf("user %s is not a participant of match %s", userID, matchID))
	}

	// The partner side is always relative to the viewer.
	otherID := match.PartnerID
	if userID == match.PartnerID {
		otherID = match.UserID
	}
	view, err := ms.viewOf(ctx, match, otherID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, apierr.NotFound("match_partner_missing", fmt.Errorf("partner rows for match %s are gone", matchID))
	}
	return view, nil
}

func (ms *matchService) viewOf(ctx context.Context, match *types.Match, partnerID uuid.UUID) (*MatchView, error) {
	partner, err := ms.userRepo.GetByID(ctx, nil, partnerID)
	if err != nil {
		return nil, err
	}
	profile, err := ms.profileRepo.GetByUserID(ctx, nil, partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil || profile == nil {
		return nil, nil
	}
	return &MatchView{Match: match, Partner: partner, PartnerProfile: profile}, nil
}

func (ms *matchService) join(ctx context.Context, matches []*types.Match) ([]*MatchView, error) {
	if len(matches) == 0 {
		return []*MatchView{}, nil
	}

	partnerIDs := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		partnerIDs = append(partnerIDs, m.PartnerID)
	}

	users, err := ms.userRepo.GetByIDs(ctx, nil, partnerIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := ms.profileRepo.GetByUserIDs(ctx, nil, partnerIDs)
	if err != nil {
		return nil, err
	}

	userByID := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	profileByUserID := make(map[uuid.UUID]*types.Profile, len(profiles))
	for _, p := range profiles {
		profileByUserID[p.UserID] = p
	}

	views := make([]*MatchView, 0, len(matches))
	for _, m := range matches {
		partner := userByID[m.PartnerID]
		profile := profileByUserID[m.PartnerID]
		if partner == nil || profile == nil {
			// Partner deleted their account or profile since the match
			// was created.
			continue
		}
		views = append(views, &MatchView{Match: m, Partner: partner, PartnerProfile: profile})
	}
	return views, nil
}

func lastActive(u *types.User) time.Time {
	if u.LastActiveAt == nil {
		return time.Time{}
	}
	return *u.LastActiveAt
}
