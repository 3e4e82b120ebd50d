package game

// defense is the table-driven attack profile shared by every active building.
type defense struct {
	cooldown float64
	minRange float64
	maxRange float64
	domain   Domain
	damage   []float64
	speed    func(level int) float64
	delivery Delivery
}

func (d *defense) AttackCooldown() float64           { return d.cooldown }
func (d *defense) MinAttackDistance() float64        { return d.minRange }
func (d *defense) MaxAttackDistance() float64        { return d.maxRange }
func (d *defense) TargetDomain() Domain              { return d.domain }
func (d *defense) AttackDamage(level int) float64    { return d.damage[level] }
func (d *defense) ProjectileSpeed(level int) float64 { return d.speed(level) }
func (d *defense) Delivery() Delivery                { return d.delivery }

func fixedSpeed(v float64) func(int) float64 {
	return func(int) float64 { return v }
}

// bombTower explodes once after destruction.
type bombTower struct {
	defense
	deathDamage []float64
}

func (b *bombTower) DeathDamage(level int) float64 { return b.deathDamage[level] }
func (b *bombTower) DeathRadius() float64          { return 2.75 }
func (b *bombTower) DeathDelay() float64           { return 1.0 }

// airSweeper pushes air units inside a fixed arc.
type airSweeper struct {
	defense
	rotation float64
	push     []float64
}

func (a *airSweeper) Arc() (rotation, opening float64) { return a.rotation, PushWaveOpening }
func (a *airSweeper) PushStrength(level int) float64   { return a.push[level] }

// Air sweeper facing in degrees, 0 = right, 90 = down.
var sweeperRotations = map[string]float64{
	"Right":     0,
	"RightDown": 45,
	"Down":      90,
	"LeftDown":  135,
	"Left":      180,
	"LeftUp":    -135,
	"Up":        -90,
	"RightUp":   -45,
}

var (
	cannonDamage = []float64{7.2, 8.8, 12, 15.2, 20, 24.8, 32, 38.4, 44.8, 51.2, 59.2, 68, 76, 80, 84, 88, 92, 100, 108, 120, 128}
	cannonHealth = []float64{420, 470, 520, 570, 620, 670, 730, 800, 880, 960, 1060, 1160, 1260, 1380, 1500, 1620, 1740, 1870, 2000, 2150, 2250}

	airDefenseDamage = []float64{80, 110, 140, 160, 190, 230, 280, 320, 360, 400, 440, 500, 540, 600, 650}
	airDefenseHealth = []float64{800, 850, 900, 950, 1000, 1050, 1100, 1210, 1300, 1400, 1500, 1650, 1750, 1850, 1950}

	archerTowerDamage = []float64{5.5, 7.5, 9.5, 12.5, 15, 17.5, 21, 24, 28, 31.5, 35, 37, 39, 41, 42.5, 45, 50, 55, 60, 67.5, 72.5}
	archerTowerHealth = []float64{380, 420, 460, 500, 540, 580, 630, 690, 750, 810, 890, 970, 1050, 1130, 1230, 1310, 1390, 1510, 1600, 1700, 1800}

	mortarDamage = []float64{20, 25, 30, 35, 45, 55, 75, 100, 125, 150, 175, 190, 210, 240, 270, 300, 330}
	mortarHealth = []float64{400, 450, 500, 550, 600, 650, 700, 800, 950, 1100, 1300, 1500, 1700, 1950, 2150, 2300, 2450}

	wizardTowerDamage = []float64{14.3, 16.9, 20.8, 26, 31.2, 41.6, 52, 58.5, 65, 80.6, 91, 101.4, 109.2, 117, 123.5, 132.6, 143}
	wizardTowerHealth = []float64{620, 650, 680, 730, 840, 960, 1200, 1440, 1600, 1900, 2120, 2240, 2500, 2800, 3000, 3150, 3300}

	bombTowerDamage      = []float64{26.4, 30.8, 35.2, 44, 52.8, 61.6, 70.4, 79.2, 92.4, 103.4, 114.4, 125.4}
	bombTowerDeathDamage = []float64{150, 180, 220, 260, 300, 350, 400, 450, 500, 550, 600, 650}
	bombTowerHealth      = []float64{650, 700, 750, 850, 1050, 1300, 1600, 1900, 2300, 2500, 2700, 2900}

	xbowDamage = []float64{7.68, 8.96, 10.24, 10.88, 12.16, 14.08, 16.64, 19.84, 23.68, 26.24, 28.8, 30.08}
	xbowHealth = []float64{1500, 1900, 2300, 2700, 3100, 3400, 3700, 4000, 4200, 4400, 4600, 4800}

	airSweeperPush   = []float64{1.6, 2.0, 2.4, 2.8, 3.2, 3.6, 4.0}
	airSweeperHealth = []float64{750, 800, 850, 900, 950, 1000, 1050}

	hiddenTeslaDamage = []float64{20.4, 24, 28.8, 33, 38.4, 45, 52.2, 59.4, 66, 72, 78, 84, 90, 96, 102, 108}
	hiddenTeslaHealth = []float64{600, 630, 660, 690, 730, 770, 810, 850, 900, 980, 1100, 1200, 1350, 1450, 1550, 1650}

	// Traps have no health; the tables only fix the level count.
	airBombDamage        = []float64{100, 120, 144, 173, 208, 232, 252, 280, 325, 350, 375, 400}
	seekingAirMineDamage = []float64{1500, 1800, 2100, 2500, 2800, 3000, 3200}
)

func init() {
	registerBuilding(&BuildingType{
		Name: "Cannon", Width: 3, Height: 3, Kind: KindActive, Health: cannonHealth,
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &defense{
				cooldown: 0.8, minRange: 0, maxRange: 9, domain: DomainGround,
				damage: cannonDamage, speed: fixedSpeed(12),
				delivery: Delivery{Kind: DeliveryPoint},
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "AirDefense", Width: 3, Height: 3, Kind: KindActive, Health: airDefenseHealth,
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &defense{
				cooldown: 1.0, minRange: 0, maxRange: 10, domain: DomainAir,
				damage: airDefenseDamage, speed: fixedSpeed(8),
				delivery: Delivery{Kind: DeliveryPoint},
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "ArcherTower", Width: 3, Height: 3, Kind: KindActive, Health: archerTowerHealth,
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &defense{
				cooldown: 0.5, minRange: 0, maxRange: 10, domain: DomainBoth,
				damage: archerTowerDamage, speed: fixedSpeed(10),
				delivery: Delivery{Kind: DeliveryPoint},
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "Mortar", Width: 3, Height: 3, Kind: KindActive, Health: mortarHealth,
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &defense{
				cooldown: 5, minRange: 4, maxRange: 11, domain: DomainGround,
				damage: mortarDamage, speed: fixedSpeed(5),
				delivery: Delivery{Kind: DeliverySplash, Radius: 1.5},
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "WizardTower", Width: 3, Height: 3, Kind: KindActive, Health: wizardTowerHealth,
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &defense{
				cooldown: 1.3, minRange: 0, maxRange: 7, domain: DomainBoth,
				damage: wizardTowerDamage,
				speed: func(level int) float64 {
					if level >= 4 {
						return 9
					}
					return 5
				},
				delivery: Delivery{Kind: DeliverySplash, Radius: 1.0},
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "BombTower", Width: 3, Height: 3, Kind: KindActive, Health: bombTowerHealth,
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &bombTower{
				defense: defense{
					cooldown: 1.1, minRange: 0, maxRange: 6, domain: DomainGround,
					damage: bombTowerDamage, speed: fixedSpeed(8),
					delivery: Delivery{Kind: DeliverySplash, Radius: 1.5},
				},
				deathDamage: bombTowerDeathDamage,
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "XBow", Width: 3, Height: 3, Kind: KindActive, Health: xbowHealth,
		Options: []OptionSpec{{Name: "target", Values: []string{"Ground", "AirAndGround"}}},
		newBehavior: func(_ int, opts map[string]string) ActiveBehavior {
			d := &defense{
				cooldown: 0.128, minRange: 0, maxRange: 14, domain: DomainGround,
				damage: xbowDamage,
				speed: func(level int) float64 {
					return 23 + float64(min(level, 2))
				},
				delivery: Delivery{Kind: DeliveryPoint},
			}
			if opts["target"] == "AirAndGround" {
				d.maxRange = 11.5
				d.domain = DomainBoth
			}
			return d
		},
	})

	registerBuilding(&BuildingType{
		Name: "AirSweeper", Width: 2, Height: 2, Kind: KindActive, Health: airSweeperHealth,
		Options: []OptionSpec{{Name: "rotation", Values: []string{"Right", "RightUp", "Up", "LeftUp", "Left", "LeftDown", "Down", "RightDown"}}},
		newBehavior: func(level int, opts map[string]string) ActiveBehavior {
			return &airSweeper{
				defense: defense{
					cooldown: 5, minRange: 1, maxRange: 15, domain: DomainAir,
					damage: make([]float64, len(airSweeperHealth)), speed: fixedSpeed(0),
					delivery: Delivery{Kind: DeliveryPush},
				},
				rotation: sweeperRotations[opts["rotation"]],
				push:     airSweeperPush,
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "HiddenTesla", Width: 2, Height: 2, Kind: KindActive, Health: hiddenTeslaHealth,
		Trigger: &Trigger{Radius: 6, Domain: DomainBoth},
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &defense{
				cooldown: 0.6, minRange: 0, maxRange: 7, domain: DomainBoth,
				damage: hiddenTeslaDamage, speed: fixedSpeed(0),
				delivery: Delivery{Kind: DeliveryPoint},
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "AirBomb", Width: 1, Height: 1, Kind: KindTrap, Health: make([]float64, len(airBombDamage)),
		Trigger: &Trigger{Radius: 4, Domain: DomainAir},
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &defense{
				minRange: 0, maxRange: 4, domain: DomainAir,
				damage: airBombDamage, speed: fixedSpeed(2.5),
				delivery: Delivery{Kind: DeliverySplash, Radius: 3},
			}
		},
	})

	registerBuilding(&BuildingType{
		Name: "SeekingAirMine", Width: 1, Height: 1, Kind: KindTrap, Health: make([]float64, len(seekingAirMineDamage)),
		Trigger: &Trigger{Radius: 4, Domain: DomainAir, MinHousingSpace: 5},
		newBehavior: func(int, map[string]string) ActiveBehavior {
			return &defense{
				minRange: 0, maxRange: 4, domain: DomainAir,
				damage: seekingAirMineDamage, speed: fixedSpeed(3.5),
				delivery: Delivery{Kind: DeliveryPoint},
			}
		},
	})
}
