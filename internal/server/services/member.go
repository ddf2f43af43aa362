package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datingapp/internal/common"
	"github.com/dmitrijs2005/datingapp/internal/server/models"
	"github.com/dmitrijs2005/datingapp/internal/server/repositories/repomanager"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Member is a user together with the photo collection, the unit the member
// directory works with.
type Member struct {
	User   *models.User
	Photos models.PhotoCollection
}

// MemberPage is one page of the member directory.
type MemberPage struct {
	Members  []*Member
	Page     int
	PageSize int
	Total    int64
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	KnownAs      string
	Introduction string
	LookingFor   string
	Interests    string
	City         string
	Country      string
}

// MemberService serves the member directory: paginated listing, detail by
// username and profile editing.
type MemberService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMemberService(db *sql.DB, m repomanager.RepositoryManager) *MemberService {
	return &MemberService{db: db, repomanager: m}
}

// List returns one page of members ordered by most recent activity.
// Page numbers start at 1; out-of-range paging parameters are clamped.
func (s *MemberService) List(ctx context.Context, page, pageSize int) (*MemberPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	usersRepo := s.repomanager.Users(s.db)
	photosRepo := s.repomanager.Photos(s.db)

	total, err := usersRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	pageUsers, err := usersRepo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	members := make([]*Member, 0, len(pageUsers))
	for _, u := range pageUsers {
		photos, err := photosRepo.Load(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
		}
		members = append(members, &Member{User: u, Photos: photos})
	}

	return &MemberPage{Members: members, Page: page, PageSize: pageSize, Total: total}, nil
}

// Get returns a single member by username (case-insensitive).
func (s *MemberService) Get(ctx context.Context, username string) (*Member, error) {
	usersRepo := s.repomanager.Users(s.db)

	user, err := usersRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	photos, err := s.repomanager.Photos(s.db).Load(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	return &Member{User: user, Photos: photos}, nil
}

// UpdateProfile overwrites the caller's editable profile fields.
func (s *MemberService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	user.KnownAs = upd.KnownAs
	user.Introduction = upd.Introduction
	user.LookingFor = upd.LookingFor
	user.Interests = upd.Interests
	user.City = upd.City
	user.Country = upd.Country

	if err := repo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	return nil
}

// TouchLastActive records activity for the user; failures are the caller's
// to ignore, activity tracking is best-effort.
func (s *MemberService) TouchLastActive(ctx context.Context, userID string) error {
	return s.repomanager.Users(s.db).TouchLastActive(ctx, userID)
}
