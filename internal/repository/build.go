package repository

import (
	"errors"

	"bbdash/internal/db"
	"bbdash/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BuildRepository struct{}

func NewBuildRepository() *BuildRepository {
	return &BuildRepository{}
}

// Save records a finished build. A build already recorded under the same
// (builder, number) is left untouched.
func (r *BuildRepository) Save(rec model.BuildRecord) error {
	return db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

func (r *BuildRepository) Seen(builder string, number int) (bool, error) {
	var rec model.BuildRecord
	err := db.DB.Where("builder = ? AND number = ?", builder, number).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	return err == nil, err
}

func (r *BuildRepository) GetRecent(limit int) ([]model.BuildRecord, error) {
	var recs []model.BuildRecord
	result := db.DB.
		Order("finished_at desc").
		Limit(limit).
		Find(&recs)

	return recs, result.Error
}

func (r *BuildRepository) GetByBuilder(builder string, limit int) ([]model.BuildRecord, error) {
	var recs []model.BuildRecord
	result := db.DB.
		Where("builder = ?", builder).
		Order("finished_at desc").
		Limit(limit).
		Find(&recs)

	return recs, result.Error
}

type Stats struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
}

func (r *BuildRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := db.DB.Model(&model.BuildRecord{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.BuildRecord{}).
		Where("result = ?", model.ResultSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}
