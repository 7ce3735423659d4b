package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"finclusion/internal/client/api"
	"finclusion/internal/domain/profile"
)

var ErrIncompleteProfile = errors.New("Please fill in all required fields")

// Profile is the locally cached view of the user's profile.
type Profile struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profileImage"`
	DateOfBirth  string  `json:"dateOfBirth"`
	PanID        string  `json:"panId"`
}

func (p Profile) complete() bool {
	return p.Name != "" && p.Email != "" && p.DateOfBirth != "" && p.PanID != ""
}

func fromRemote(p *profile.Profile) Profile {
	return Profile{
		Name:         p.Name,
		Email:        p.Email,
		ProfileImage: p.ProfileImage,
		DateOfBirth:  p.DateOfBirth,
		PanID:        p.PanID,
	}
}

func (p Profile) update() api.ProfileUpdate {
	completed := p.complete()
	u := api.ProfileUpdate{
		Name:             &p.Name,
		DateOfBirth:      &p.DateOfBirth,
		PanID:            &p.PanID,
		ProfileImage:     p.ProfileImage,
		ProfileCompleted: &completed,
	}
	if p.Email != "" {
		u.Email = &p.Email
	}
	return u
}

// SaveResult reports how a profile save ended. Saving always succeeds
// locally; Synced tells whether the server accepted it.
type SaveResult struct {
	Profile   Profile
	Synced    bool
	RemoteErr error
}

func (s *Store) Profile() Profile {
	return s.profile.Get()
}

// SaveProfile persists p locally, then tries the server. A rejected or
// failed remote update still keeps the submitted data.
func (s *Store) SaveProfile(ctx context.Context, p Profile) (SaveResult, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)

	if s.isNewUser && !p.complete() {
		return SaveResult{}, ErrIncompleteProfile
	}

	if err := s.profile.Set(p); err != nil {
		return SaveResult{}, err
	}
	if err := s.ensureCurrentUser(p); err != nil {
		return SaveResult{}, err
	}

	seq := s.nextProfileSeq()
	resp, err := s.remote.UpdateProfile(ctx, p.update())
	if s.stale(seq) {
		s.logger.Debug("discarding stale profile update", "seq", seq)
		return SaveResult{Profile: s.profile.Get(), Synced: err == nil && resp != nil && resp.Success, RemoteErr: err}, nil
	}

	switch {
	case err != nil:
		s.logger.Error("failed to save profile", "error", err)
		s.finishCompletion()
		return SaveResult{Profile: p, RemoteErr: err}, nil

	case resp == nil || !resp.Success || resp.Data == nil:
		remoteErr := errors.New("profile update was not accepted")
		if resp != nil && resp.Error != "" {
			remoteErr = errors.New(resp.Error)
		}
		s.logger.Error("profile update rejected", "error", remoteErr)
		s.finishCompletion()
		return SaveResult{Profile: p, RemoteErr: remoteErr}, nil
	}

	saved := fromRemote(resp.Data)
	if err := s.profile.Set(saved); err != nil {
		return SaveResult{}, err
	}
	s.finishCompletion()

	if err := s.fetchProfile(ctx); err != nil {
		s.logger.Error("failed to reload profile", "error", err)
	}
	return SaveResult{Profile: s.profile.Get(), Synced: true}, nil
}

func (s *Store) finishCompletion() {
	s.completionOpen = false
	s.isNewUser = false
}

func (s *Store) ensureCurrentUser(p Profile) error {
	if _, ok, err := s.local.Get(KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to read %s: %w", KeyCurrentUser, err)
	} else if ok {
		return nil
	}

	data, err := json.Marshal(struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}{p.Email, p.Name})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", KeyCurrentUser, err)
	}
	if err := s.local.Set(KeyCurrentUser, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyCurrentUser, err)
	}
	return nil
}

// fetchProfile replaces the profile with the server's copy. When the server
// answers without data the stored profile is kept, or completion is opened
// if there is none. Transport errors are returned and change nothing.
func (s *Store) fetchProfile(ctx context.Context) error {
	seq := s.nextProfileSeq()
	resp, err := s.remote.GetProfile(ctx)
	if err != nil {
		return err
	}
	if s.stale(seq) {
		s.logger.Debug("discarding stale profile fetch", "seq", seq)
		return nil
	}

	if resp != nil && resp.Success && resp.Data != nil {
		p := fromRemote(resp.Data)
		if err := s.profile.Set(p); err != nil {
			return err
		}
		if p.Name == "" {
			s.isNewUser = true
			s.completionOpen = true
		}
		return nil
	}

	raw, ok, err := s.local.Get(KeyUserProfile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", KeyUserProfile, err)
	}
	var stored Profile
	if ok && json.Unmarshal([]byte(raw), &stored) == nil {
		s.profile.assign(stored)
		return nil
	}

	s.isNewUser = true
	s.completionOpen = true
	return nil
}
