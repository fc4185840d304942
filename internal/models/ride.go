package models

import "time"

// Ride - trecho de carona. Se houver custo de gasolina na criação, uma
// despesa é materializada uma única vez na categoria de sistema "Gasolina";
// edições posteriores da carona não propagam para a despesa.
type Ride struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"size:150;not null"`
	DriverID      uint   `gorm:"index;not null"`
	Driver        User   `gorm:"foreignKey:DriverID"`
	Origin        string `gorm:"size:150"`
	Destination   string `gorm:"size:150"`
	TravelDate    *time.Time
	FuelCostCents int64   `gorm:"not null;default:0"` // valor_gasolina em centavos
	DistanceKM    float64 `gorm:"not null;default:0"`
	ExpenseID     *uint   `gorm:"index"` // despesa de gasolina gerada, se houver
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Passengers []RidePassenger `gorm:"foreignKey:RideID;constraint:OnDelete:CASCADE"`
}

type RidePassenger struct {
	ID                uint   `gorm:"primaryKey"`
	RideID            uint   `gorm:"index;not null"`
	UserID            uint   `gorm:"index;not null"`
	User              User   `gorm:"foreignKey:UserID"`
	ContributionCents *int64 // contribuicao em centavos; nulo = rateio igual
	PaymentConfirmed  bool   `gorm:"not null;default:false"`
	CreatedAt         time.Time
}
