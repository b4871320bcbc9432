package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/models"
	"github.com/jstittsworth/prop-sheet/pkg/database"
)

// PropStoreService writes enriched props with week-scoped dedup, making
// repeated runs for the same week idempotent. The pipeline is the single
// writer per run; concurrent runs against one week must be serialized by
// the caller (the fetcher's run lock does this in scheduler mode).
type PropStoreService struct {
	db        *database.DB
	logger    *logrus.Logger
	batchSize int
}

func NewPropStoreService(db *database.DB, logger *logrus.Logger, batchSize int) *PropStoreService {
	if batchSize <= 0 {
		batchSize = 250
	}
	return &PropStoreService{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// SaveProps upserts a batch of enriched props for a week. Records whose
// (player, prop, side) key already exists for the week are skipped,
// case-insensitively. Writes are chunked to the store's batch limit.
// Returns counts of added and skipped records.
func (s *PropStoreService) SaveProps(props []models.EnrichedProp, season, week int) (int, int, error) {
	if len(props) == 0 {
		return 0, 0, nil
	}

	existing, err := s.existingKeys(season, week)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load existing props: %w", err)
	}

	toWrite := make([]models.EnrichedProp, 0, len(props))
	skipped := 0
	for _, prop := range props {
		key := dedupKey(prop.PlayerKey, prop.Prop, prop.Side)
		if existing[key] {
			skipped++
			continue
		}
		existing[key] = true
		toWrite = append(toWrite, prop)
	}

	if len(toWrite) > 0 {
		if err := s.db.DB.CreateInBatches(toWrite, s.batchSize).Error; err != nil {
			return 0, skipped, fmt.Errorf("failed to write props: %w", err)
		}
	}

	s.logger.Infof("Stored %d props for week %d (%d duplicates skipped)", len(toWrite), week, skipped)
	return len(toWrite), skipped, nil
}

func (s *PropStoreService) existingKeys(season, week int) (map[string]bool, error) {
	var rows []models.EnrichedProp
	err := s.db.DB.
		Select("player_key", "prop", "side").
		Where("season = ? AND week = ?", season, week).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool, len(rows))
	for _, row := range rows {
		keys[dedupKey(row.PlayerKey, row.Prop, row.Side)] = true
	}
	return keys, nil
}

func dedupKey(playerKey, prop, side string) string {
	return strings.ToLower(playerKey) + "|" + strings.ToLower(prop) + "|" + strings.ToLower(side)
}
