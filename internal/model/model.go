package model

import "time"

// ApptType is the closed category set for appointments. Unknown values
// normalize to TypeOther.
type ApptType string

const (
	TypeMedical  ApptType = "medical"
	TypePills    ApptType = "pills"
	TypeFamily   ApptType = "family"
	TypeFood     ApptType = "food"
	TypeActivity ApptType = "activity"
	TypeShopping ApptType = "shopping"
	TypeSocial   ApptType = "social"
	TypeOther    ApptType = "other"
)

var allTypes = map[ApptType]bool{
	TypeMedical:  true,
	TypePills:    true,
	TypeFamily:   true,
	TypeFood:     true,
	TypeActivity: true,
	TypeShopping: true,
	TypeSocial:   true,
	TypeOther:    true,
}

// NormalizeType maps anything outside the closed set to TypeOther.
func NormalizeType(t ApptType) ApptType {
	if allTypes[t] {
		return t
	}
	return TypeOther
}

// Types lists the closed set in display order.
func Types() []ApptType {
	return []ApptType{
		TypeMedical, TypePills, TypeFamily, TypeFood,
		TypeActivity, TypeShopping, TypeSocial, TypeOther,
	}
}

// TypeLabel is the zh-TW display label for a category.
func TypeLabel(t ApptType) string {
	switch NormalizeType(t) {
	case TypeMedical:
		return "看醫生"
	case TypePills:
		return "吃藥"
	case TypeFamily:
		return "家人"
	case TypeFood:
		return "用餐"
	case TypeActivity:
		return "活動"
	case TypeShopping:
		return "採買"
	case TypeSocial:
		return "聚會"
	default:
		return "記事"
	}
}

// TypeIcon is the emoji marker for a category.
func TypeIcon(t ApptType) string {
	switch NormalizeType(t) {
	case TypeMedical:
		return "🏥"
	case TypePills:
		return "💊"
	case TypeFamily:
		return "👨‍👩‍👧"
	case TypeFood:
		return "🍱"
	case TypeActivity:
		return "👟"
	case TypeShopping:
		return "👜"
	case TypeSocial:
		return "🍵"
	default:
		return "📝"
	}
}

// Appointment is one scheduled reminder record. Date and Time are kept
// as the user-facing calendar strings ("2006-01-02", "15:04"); all
// comparisons are calendar based, never instant based.
type Appointment struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // HH:MM, 24h
	Type      ApptType  `json:"type"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Draft is the user-supplied part of an appointment before creation.
type Draft struct {
	Title string
	Date  string
	Time  string
	Type  ApptType
}

// Identity describes the signed-in user in the authenticated variants.
type Identity struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarRef   string `json:"avatarRef,omitempty"`
}
