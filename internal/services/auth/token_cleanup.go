package auth

import (
	"time"

	"github.com/its2darkai/Follow-up-crm/internal/database/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TokenCleanupService periodically deletes expired and revoked refresh tokens.
type TokenCleanupService struct {
	refreshTokenRepo *repository.RefreshTokenRepository
	interval         time.Duration
	stopChan         chan bool
}

func NewTokenCleanupService(db *gorm.DB) *TokenCleanupService {
	return &TokenCleanupService{
		refreshTokenRepo: repository.NewRefreshTokenRepository(db),
		interval:         24 * time.Hour,
		stopChan:         make(chan bool),
	}
}

// Start starts the token cleanup service
func (s *TokenCleanupService) Start() {
	go s.run()
	logrus.Info("Token cleanup service started")
}

// Stop stops the token cleanup service
func (s *TokenCleanupService) Stop() {
	s.stopChan <- true
	logrus.Info("Token cleanup service stopped")
}

func (s *TokenCleanupService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *TokenCleanupService) cleanup() {
	if err := s.refreshTokenRepo.CleanupTokens(); err != nil {
		logrus.Errorf("Failed to cleanup tokens: %v", err)
		return
	}
	logrus.Debug("Token cleanup completed")
}
