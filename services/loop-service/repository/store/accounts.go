package store

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
)

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// FindUserByEmail matches emails case-insensitively
func (s *Store) FindUserByEmail(ctx context.Context, email string) (model.User, bool) {
	return s.users.first(ctx, func(u model.User) bool { return sameEmail(u.Email, email) })
}

func (s *Store) FindClientByUserID(ctx context.Context, userID int64) (model.Client, bool) {
	return s.clients.first(ctx, func(c model.Client) bool { return c.UserID != nil && *c.UserID == userID })
}

func (s *Store) FindRepresentativeByUserID(ctx context.Context, userID int64) (model.Representative, bool) {
	return s.representatives.first(ctx, func(r model.Representative) bool { return r.UserID != nil && *r.UserID == userID })
}

// CountSale adds one to the representative's sales counter as a single locked step.
// It reports false when the representative does not exist.
func (s *Store) CountSale(ctx context.Context, repID int64) (model.Representative, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.representatives.load(ctx)
	i := s.representatives.find(rows, repID)
	if i < 0 {
		return model.Representative{}, false
	}
	count := rows[i].Sales + 1
	return s.representatives.update(ctx, repID, model.RepresentativePatch{Sales: &count})
}

// Register creates the user and, for the Representante and Cliente roles, a linked profile.
// It returns domain.ErrEmailAlreadyExists without writing anything when the email is taken.
func (s *Store) Register(ctx context.Context, name, email, password string, role model.Role) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	email = strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users.load(ctx) {
		if sameEmail(u.Email, email) {
			s.logger.WarnContext(ctx, "Registration with existing email", "email", email)
			return model.User{}, domain.ErrEmailAlreadyExists
		}
	}

	user := s.users.add(ctx, model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	})

	switch role {
	case model.RoleRepresentative:
		s.representatives.add(ctx, model.Representative{
			Name:           name,
			Email:          email,
			CommissionRate: model.DefaultCommissionRate,
			Status:         model.RepresentativeActive,
			UserID:         &user.ID,
		})
	case model.RoleClient:
		s.clients.add(ctx, model.Client{
			Name:   name,
			Email:  email,
			Status: model.ClientLead,
			UserID: &user.ID,
		})
	}

	s.logger.InfoContext(ctx, "User registered", "id", user.ID, "role", role)
	return user, nil
}
