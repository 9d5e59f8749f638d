package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveSlot holds a serialized world snapshot under a named slot.
type SaveSlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64" json:"name"`
	Payload   []byte    `gorm:"type:jsonb" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var ErrSlotNotFound = errors.New("save slot not found")

type SaveRepository interface {
	Put(name string, payload []byte) error
	Get(name string) (*SaveSlot, error)
	List() ([]SaveSlot, error)
	Delete(name string) error
}

type GormSaveRepository struct {
	db *gorm.DB
}

func NewGormSaveRepository(db *gorm.DB) (*GormSaveRepository, error) {
	if err := db.AutoMigrate(&SaveSlot{}); err != nil {
		return nil, err
	}
	return &GormSaveRepository{db: db}, nil
}

// Put creates or overwrites the slot with the given name.
func (r *GormSaveRepository) Put(name string, payload []byte) error {
	slot := SaveSlot{Name: name, Payload: payload}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&slot).Error
}

func (r *GormSaveRepository) Get(name string) (*SaveSlot, error) {
	var slot SaveSlot
	err := r.db.Where("name = ?", name).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormSaveRepository) List() ([]SaveSlot, error) {
	var slots []SaveSlot
	err := r.db.Select("id", "name", "created_at", "updated_at").Order("updated_at desc").Find(&slots).Error
	return slots, err
}

func (r *GormSaveRepository) Delete(name string) error {
	res := r.db.Where("name = ?", name).Delete(&SaveSlot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}
