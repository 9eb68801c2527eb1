package models

// SingletonID is the fixed key of single-row records.
const SingletonID uint = 1

type Project struct {
	ID   uint   `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name"`
}
