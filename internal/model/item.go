package model

import "time"

// ItemType — вид заявки: потеряно или найдено.
type ItemType string

const (
	ItemLost  ItemType = "LOST"
	ItemFound ItemType = "FOUND"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	return t == ItemLost || t == ItemFound
}

// ItemStatus — жизненный цикл заявки. Пустое значение означает «статус не задан».
type ItemStatus string

const (
	StatusOpen    ItemStatus = "OPEN"
	StatusMatched ItemStatus = "MATCHED"
	StatusClosed  ItemStatus = "CLOSED"
)

// Valid reports whether s is one of the known statuses.
func (s ItemStatus) Valid() bool {
	return s == StatusOpen || s == StatusMatched || s == StatusClosed
}

// Item — серверная модель заявки о потерянной или найденной вещи.
type Item struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	Title       string   `gorm:"not null" json:"title"`
	Description string   `json:"description"`
	Type        ItemType `gorm:"not null;index" json:"type"`

	Category *string `json:"category"`
	Tags     *string `json:"tags"` // ключевые слова через запятую или точку с запятой
	// Location обязательна при создании; пустая строка означает «не указано»
	// и при подборе совпадений не считается совпадением с другой пустой.
	Location string `json:"location"`
	Color    string `json:"color,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	DateReported *time.Time `gorm:"index" json:"date_reported"`
	Status       ItemStatus `gorm:"index" json:"status"`
	Matched      bool       `gorm:"not null;default:false" json:"matched"`
	Flagged      bool       `gorm:"not null;default:false;index" json:"flagged"`

	PostedByID *int64 `gorm:"index" json:"posted_by_id"` // ссылка на users.id, nil — автор неизвестен
	PostedBy   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"posted_by,omitempty"`
}

// PostedByUser reports whether the item was posted by userID.
func (it *Item) PostedByUser(userID int64) bool {
	return it.PostedByID != nil && *it.PostedByID == userID
}
