package store

import (
	"errors"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"partyround/backend/internal/models"
)

// GormStore is the durable Store implementation, selected with
// STORAGE_DRIVER=postgres. It implements exactly the same record semantics as
// MemoryStore so the session layer never knows which backend it is on.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm connects to postgres and runs migrations.
func OpenGorm(dsn string) (*GormStore, error) {
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         customLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Lobby{},
		&models.Player{},
		&models.Round{},
		&models.LifeState{},
		&models.Score{},
	)
	if err != nil {
		return nil, err
	}

	return &GormStore{db: db}, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *GormStore) CreateLobby(l *models.Lobby) error {
	return translate(s.db.Create(l).Error)
}

func (s *GormStore) GetLobby(id string) (*models.Lobby, error) {
	var l models.Lobby
	if err := s.db.First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *GormStore) FindLobbyByName(nameKey string) (*models.Lobby, error) {
	var l models.Lobby
	if err := s.db.First(&l, "name_key = ?", nameKey).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *GormStore) ListLobbies() ([]models.Lobby, error) {
	var lobbies []models.Lobby
	if err := s.db.Order("created_at DESC").Find(&lobbies).Error; err != nil {
		return nil, translate(err)
	}
	return lobbies, nil
}

func (s *GormStore) UpdateLobby(l *models.Lobby) error {
	res := s.db.Model(&models.Lobby{}).Where("id = ?", l.ID).Updates(map[string]any{
		"name":     l.Name,
		"name_key": l.NameKey,
		"status":   l.Status,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteLobby(id string) error {
	res := s.db.Delete(&models.Lobby{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreatePlayer(p *models.Player) error {
	return translate(s.db.Create(p).Error)
}

func (s *GormStore) GetPlayer(id string) (*models.Player, error) {
	var p models.Player
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) FindPlayerByName(lobbyID, nameKey string) (*models.Player, error) {
	var p models.Player
	err := s.db.Where("name_key = ?", nameKey).
		Where("lobby_id = ? OR (lobby_id IS NULL AND last_lobby_id = ?)", lobbyID, lobbyID).
		Order("lobby_id NULLS LAST").
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) PlayersInLobby(lobbyID string) ([]models.Player, error) {
	var players []models.Player
	if err := s.db.Where("lobby_id = ?", lobbyID).Order("joined_at ASC").Find(&players).Error; err != nil {
		return nil, translate(err)
	}
	return players, nil
}

func (s *GormStore) CountActivePlayers(lobbyID string) (int, error) {
	var n int64
	err := s.db.Model(&models.Player{}).
		Where("lobby_id = ? AND is_active = ?", lobbyID, true).
		Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

func (s *GormStore) UpdatePlayer(p *models.Player) error {
	res := s.db.Model(&models.Player{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":          p.Name,
		"name_key":      p.NameKey,
		"lobby_id":      p.LobbyID,
		"is_active":     p.IsActive,
		"session_token": p.SessionToken,
		"last_seen_at":  p.LastSeenAt,
		"last_lobby_id": p.LastLobbyID,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateRound(r *models.Round) error {
	return translate(s.db.Create(r).Error)
}

func (s *GormStore) GetRound(id string) (*models.Round, error) {
	var r models.Round
	if err := s.db.First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *GormStore) CurrentRound(lobbyID string) (*models.Round, error) {
	var r models.Round
	err := s.db.Where("lobby_id = ?", lobbyID).Order("number DESC").First(&r).Error
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *GormStore) UpdateRound(r *models.Round) error {
	res := s.db.Model(&models.Round{}).Where("id = ?", r.ID).Updates(map[string]any{
		"state":            r.State,
		"winner_player_id": r.WinnerPlayerID,
		"ended_at":         r.EndedAt,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteRoundsInLobby(lobbyID string) (int, error) {
	var roundIDs []string
	if err := s.db.Model(&models.Round{}).Where("lobby_id = ?", lobbyID).Pluck("id", &roundIDs).Error; err != nil {
		return 0, translate(err)
	}
	if len(roundIDs) == 0 {
		return 0, nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.LifeState{}, "round_id IN ?", roundIDs).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Round{}, "id IN ?", roundIDs).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return len(roundIDs), nil
}

func (s *GormStore) CreateLifeState(ls *models.LifeState) error {
	return translate(s.db.Create(ls).Error)
}

func (s *GormStore) GetLifeState(roundID, playerID string) (*models.LifeState, error) {
	var ls models.LifeState
	if err := s.db.First(&ls, "round_id = ? AND player_id = ?", roundID, playerID).Error; err != nil {
		return nil, translate(err)
	}
	return &ls, nil
}

func (s *GormStore) LivesInRound(roundID string) ([]models.LifeState, error) {
	var lives []models.LifeState
	if err := s.db.Where("round_id = ?", roundID).Order("player_id ASC").Find(&lives).Error; err != nil {
		return nil, translate(err)
	}
	return lives, nil
}

func (s *GormStore) UpdateLifeState(ls *models.LifeState) error {
	res := s.db.Model(&models.LifeState{}).
		Where("round_id = ? AND player_id = ?", ls.RoundID, ls.PlayerID).
		Updates(map[string]any{
			"lives_remaining": ls.LivesRemaining,
			"updated_at":      ls.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) EnsureScore(playerID string) (*models.Score, error) {
	var sc models.Score
	err := s.db.Where(models.Score{PlayerID: playerID}).
		Attrs(models.Score{PointsTotal: 0, UpdatedAt: time.Now()}).
		FirstOrCreate(&sc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sc, nil
}

func (s *GormStore) AddPoints(playerID string, delta int) (*models.Score, error) {
	var sc models.Score
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.Score{PlayerID: playerID}).
			Attrs(models.Score{PointsTotal: 0}).
			FirstOrCreate(&sc).Error; err != nil {
			return err
		}
		sc.PointsTotal += delta
		if sc.PointsTotal < 0 {
			sc.PointsTotal = 0
		}
		sc.UpdatedAt = time.Now()
		return tx.Model(&models.Score{}).Where("player_id = ?", playerID).Updates(map[string]any{
			"points_total": sc.PointsTotal,
			"updated_at":   sc.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &sc, nil
}

func (s *GormStore) ScoresForPlayers(playerIDs []string) ([]models.Score, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	var scores []models.Score
	if err := s.db.Where("player_id IN ?", playerIDs).Find(&scores).Error; err != nil {
		return nil, translate(err)
	}
	return scores, nil
}

func (s *GormStore) DeleteScores(playerIDs []string) error {
	if len(playerIDs) == 0 {
		return nil
	}
	return translate(s.db.Delete(&models.Score{}, "player_id IN ?", playerIDs).Error)
}
