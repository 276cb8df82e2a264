package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
)

// SaveTokenPair stores the digests of a refresh token and its paired access
// token.
func (r *GormRepo) SaveTokenPair(ctx context.Context, rt *models.RefreshToken, refreshToken, accessToken string) error {
	rt.TokenHash = tokens.Sha256Hex(refreshToken)
	rt.AccessTokenHash = tokens.Sha256Hex(accessToken)
	return r.conn(ctx).Create(rt).Error
}

func (r *GormRepo) FindRefreshToken(ctx context.Context, refreshToken string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.conn(ctx).Where("token_hash = ?", tokens.Sha256Hex(refreshToken)).First(&rt).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &rt, nil
}

func (r *GormRepo) DeleteUserTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.conn(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

// AccessTokenPaired reports whether a stored row pairs userID with
// accessToken.
func (r *GormRepo) AccessTokenPaired(ctx context.Context, userID uuid.UUID, accessToken string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND access_token_hash = ?", userID, tokens.Sha256Hex(accessToken)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
