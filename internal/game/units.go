package game

func init() {
	registerUnit(&UnitType{
		Name:           "Barbarian",
		Domain:         DomainGround,
		HousingSpace:   1,
		Speed:          2.0,
		AttackRange:    0.4,
		AttackCooldown: 1.0,
		Health:         []float64{45, 54, 65, 85, 105, 125, 160, 205, 230, 250, 270, 290},
		Damage:         []float64{9, 11, 14, 18, 23, 26, 30, 34, 38, 42, 45, 48},
		Attack:         melee{},
	})

	registerUnit(&UnitType{
		Name:           "Dragon",
		Domain:         DomainAir,
		HousingSpace:   20,
		Speed:          2.0,
		AttackRange:    1.0,
		AttackCooldown: 1.25,
		Health:         []float64{1900, 2100, 2300, 2700, 3100, 3400, 3900, 4200, 4500, 4900, 5300, 5700},
		Damage:         []float64{175, 200, 225, 262.5, 300, 337.5, 387.5, 412.5, 437.5, 462.5, 487.5, 512.5},
		Attack:         buildingSplash{Radius: 0.25},
	})

	registerUnit(&UnitType{
		Name:           "Balloon",
		Domain:         DomainAir,
		HousingSpace:   5,
		Speed:          1.3,
		AttackRange:    0,
		AttackCooldown: 3.0,
		Health:         []float64{150, 180, 216, 280, 390, 545, 690, 840, 940, 1040, 1140},
		Damage:         []float64{75, 96, 144, 216, 324, 486, 594, 708, 768, 828, 870},
		Attack:         buildingSplash{Radius: 1.2},
		Death: &DeathSplash{
			Radius: 1.2,
			Damage: []float64{25, 32, 48, 72, 108, 162, 214, 268, 322, 352, 375},
		},
		Prefers: (*Building).IsActive,
	})
}
