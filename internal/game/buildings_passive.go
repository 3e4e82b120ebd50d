package game

var (
	resourceHealth = []float64{400, 440, 480, 520, 560, 600, 640, 680, 720, 780, 860, 960, 1080, 1180, 1280, 1350}
	storageHealth  = []float64{400, 600, 800, 1000, 1200, 1400, 1600, 1700, 1800, 1900, 2100, 2500, 2900, 3300, 3700, 3900, 4050, 4200}
)

func init() {
	for _, t := range []*BuildingType{
		{Name: "TownHall", Width: 4, Height: 4, Kind: KindTownHall,
			Health: []float64{450, 1600, 1850, 2100, 2400, 2800, 3300, 3900, 4600, 5500, 6800, 7500, 8200, 8900, 9600, 10000, 10400}},
		{Name: "Wall", Width: 1, Height: 1, Kind: KindWall,
			Health: []float64{300, 500, 700, 900, 1400, 2000, 2500, 3000, 3500, 4000, 5000, 7000, 9000, 11000, 12500, 13500, 14500, 15500}},
		{Name: "ArmyCamp", Width: 4, Height: 4,
			Health: []float64{250, 270, 290, 310, 330, 350, 400, 500, 600, 700, 800, 850, 900}},
		{Name: "Barracks", Width: 3, Height: 3,
			Health: []float64{250, 290, 330, 370, 420, 470, 520, 580, 650, 730, 810, 900, 980, 1050, 1150, 1250, 1350, 1450}},
		{Name: "BuildersHut", Width: 2, Height: 2,
			Health: []float64{250, 1000, 1300, 1600, 1800, 1900, 2000}},
		{Name: "ClanCastle", Width: 3, Height: 3,
			Health: []float64{1000, 1400, 2000, 2600, 3000, 3400, 4000, 4400, 4800, 5200, 5400, 5600, 5800}},
		{Name: "DarkElixirDrill", Width: 3, Height: 3,
			Health: []float64{800, 860, 920, 980, 1060, 1160, 1280, 1380, 1480, 1550}},
		{Name: "DarkElixirStorage", Width: 3, Height: 3,
			Health: []float64{2000, 2200, 2400, 2600, 2900, 3200, 3500, 3800, 4100, 4300, 4500, 4700}},
		{Name: "ElixirCollector", Width: 3, Height: 3, Health: resourceHealth},
		{Name: "GoldMine", Width: 3, Height: 3, Health: resourceHealth},
		{Name: "ElixirStorage", Width: 3, Height: 3, Health: storageHealth},
		{Name: "GoldStorage", Width: 3, Height: 3, Health: storageHealth},
		{Name: "GoblinHut", Width: 2, Height: 2, Health: []float64{250}},
		{Name: "Laboratory", Width: 3, Height: 3,
			Health: []float64{500, 550, 600, 650, 700, 750, 830, 950, 1070, 1140, 1210, 1280, 1350, 1400}},
	} {
		registerBuilding(t)
	}
}
