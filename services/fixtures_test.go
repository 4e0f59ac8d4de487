package services

import (
	"metro-rent-assistant/models"
	"metro-rent-assistant/storage"
	"metro-rent-assistant/utils"
)

// sampleTable mirrors the cleaned dataset layout. Current rent is left nil
// so the store derives it from the latest year.
//
//	metro              2021  2022  2025  3y%     5y%
//	United States      1500  1600  1700   6.25   13.33
//	New York, NY       2500  2700  3000  11.11   20
//	Austin, TX         1500  1800  1620 -10       8
//	Seattle, WA          -   2000  2100   5       -
//	Wichita Falls, TX    -    900   950   5.56    -
//	Ghost Town, TX       -     -     -     -      -
//	Houston, TX          -   1500  1620   8       -
//	Stateless Metro      -     -    800    -      -
func sampleTable() *models.MetroTable {
	row := func(name, state string, rents map[int]float64) *models.MetroRecord {
		return &models.MetroRecord{RegionName: name, State: state, YearlyRent: rents}
	}
	return &models.MetroTable{
		Years: []int{2021, 2022, 2023, 2024, 2025},
		Rows: []*models.MetroRecord{
			row("United States", "", map[int]float64{2021: 1500, 2022: 1600, 2025: 1700}),
			row("New York, NY", "NY", map[int]float64{2021: 2500, 2022: 2700, 2025: 3000}),
			row("Austin, TX", "TX", map[int]float64{2021: 1500, 2022: 1800, 2025: 1620}),
			row("Seattle, WA", "WA", map[int]float64{2022: 2000, 2025: 2100}),
			row("Wichita Falls, TX", "TX", map[int]float64{2022: 900, 2025: 950}),
			row("Ghost Town, TX", "TX", map[int]float64{}),
			row("Houston, TX", "TX", map[int]float64{2022: 1500, 2025: 1620}),
			row("Stateless Metro", "", map[int]float64{2025: 800}),
		},
	}
}

func newTestStore() *DatasetStore {
	return NewDatasetStore(&storage.StaticSource{Table: sampleTable()}, utils.NewNopLogger())
}

func newTestRecommender(opts RecommenderOptions) *Recommender {
	return NewRecommender(newTestStore(), opts, utils.NewNopLogger())
}

func names(rows []*models.MetroRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.RegionName
	}
	return out
}
