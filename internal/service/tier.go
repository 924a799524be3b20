package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garomon/garo-vibe-api/internal/config"
	"github.com/garomon/garo-vibe-api/internal/credential"
	"github.com/garomon/garo-vibe-api/internal/domain"
)

type TierMemberRepository interface {
	UpdateTier(ctx context.Context, id uint, tier int) error
}

// TierEngine derives a member's rank from cumulative attendance and applies
// the inactivity decay rule. Tier thresholds and the decay window are
// configuration, not law; the reference values are 1/3/10 check-ins for tiers
// 1/2/3 and a 30 day decay window.
type TierEngine struct {
	repo   TierMemberRepository
	issuer credential.Issuer

	tierTwoAt   int
	tierThreeAt int
	decayWindow time.Duration

	now func() time.Time
}

func NewTierEngine(repo TierMemberRepository, issuer credential.Issuer, conf *config.MembershipConfig) *TierEngine {
	return &TierEngine{
		repo:        repo,
		issuer:      issuer,
		tierTwoAt:   conf.TierTwoAt,
		tierThreeAt: conf.TierThreeAt,
		decayWindow: time.Duration(conf.DecayWindowDays) * 24 * time.Hour,
		now:         time.Now,
	}
}

// ComputeTier is pure: attendance in, tier out.
func (e *TierEngine) ComputeTier(attendanceCount int) int {
	switch {
	case attendanceCount >= e.tierThreeAt:
		return domain.TierThree
	case attendanceCount >= e.tierTwoAt:
		return domain.TierTwo
	case attendanceCount >= 1:
		return domain.TierOne
	default:
		return domain.TierGhost
	}
}

// CheckUpgrade recomputes the tier from the member's attendance and persists
// it if it increased. When the member holds a credential, a metadata refresh
// is requested fire-and-forget; a refresh failure is logged, never returned.
// The second return value reports whether the tier changed.
func (e *TierEngine) CheckUpgrade(ctx context.Context, member domain.Member) (int, bool, error) {
	newTier := e.ComputeTier(member.AttendanceCount)
	if newTier <= member.Tier {
		return member.Tier, false, nil
	}

	if err := e.repo.UpdateTier(ctx, member.ID, newTier); err != nil {
		return member.Tier, false, fmt.Errorf("e.repo.UpdateTier -> %w", err)
	}

	if member.CredentialRef != nil {
		ref := *member.CredentialRef
		go func() {
			refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := e.issuer.RefreshMetadata(refreshCtx, ref, newTier); err != nil {
				zap.L().Warn("credential metadata refresh failed",
					zap.Uint("member_id", member.ID),
					zap.Int("new_tier", newTier),
					zap.Error(err))
			}
		}()
	}

	return newTier, true, nil
}

// CheckDecay lowers the tier by one step when the member has not attended
// anything within the decay window. The floor is tier 1: decay never turns a
// member back into a ghost. Attendance count is untouched. This is a lazy
// check run at login, not a background sweep.
func (e *TierEngine) CheckDecay(ctx context.Context, member domain.Member) (int, bool, error) {
	if member.Tier <= domain.TierOne || member.LastAttendanceAt == nil {
		return member.Tier, false, nil
	}

	if e.now().Sub(*member.LastAttendanceAt) <= e.decayWindow {
		return member.Tier, false, nil
	}

	newTier := member.Tier - 1

	if err := e.repo.UpdateTier(ctx, member.ID, newTier); err != nil {
		return member.Tier, false, fmt.Errorf("e.repo.UpdateTier -> %w", err)
	}

	return newTier, true, nil
}
