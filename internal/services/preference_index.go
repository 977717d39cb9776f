package services

import (
	"sort"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

// PreferenceIndex maps each favored dish to the guests who favor it.
// Entries keep the order in which dishes were first seen while walking the
// guests, which is the tie-break order for everything built on top of it.
type PreferenceIndex struct {
	entries map[int]*models.DishPreference
	order   []int
}

// BuildPreferenceIndex walks every guest's favorites. The same guest passed
// twice is counted twice; deduplicating guests is up to the caller.
func BuildPreferenceIndex(guests []models.Guest) *PreferenceIndex {
	idx := &PreferenceIndex{
		entries: make(map[int]*models.DishPreference),
	}

	for _, guest := range guests {
		for _, dish := range guest.FavoriteDishes {
			entry, ok := idx.entries[dish.ID]
			if !ok {
				entry = &models.DishPreference{
					Dish:       dish,
					GuestNames: []string{},
					GuestIDs:   []int{},
				}
				idx.entries[dish.ID] = entry
				idx.order = append(idx.order, dish.ID)
			}
			entry.GuestCount++
			entry.GuestNames = append(entry.GuestNames, guest.Name)
			entry.GuestIDs = append(entry.GuestIDs, guest.ID)
		}
	}

	return idx
}

// Len returns the number of distinct favored dishes
func (p *PreferenceIndex) Len() int {
	return len(p.order)
}

// Get returns the entry for a dish
func (p *PreferenceIndex) Get(dishID int) (models.DishPreference, bool) {
	entry, ok := p.entries[dishID]
	if !ok {
		return models.DishPreference{}, false
	}
	return *entry, true
}

// Entries returns all entries in first-seen order
func (p *PreferenceIndex) Entries() []models.DishPreference {
	result := make([]models.DishPreference, 0, len(p.order))
	for _, id := range p.order {
		result = append(result, *p.entries[id])
	}
	return result
}

// FindIntersections returns the dishes liked by at least minCommon guests,
// most-liked first. Equal counts keep index order.
func FindIntersections(index *PreferenceIndex, minCommon int) []models.DishIntersection {
	result := []models.DishIntersection{}

	for _, entry := range index.Entries() {
		if entry.GuestCount < minCommon {
			continue
		}
		result = append(result, models.DishIntersection{
			Dish:        entry.Dish,
			GuestCount:  entry.GuestCount,
			GuestNames:  entry.GuestNames,
			GuestIDs:    entry.GuestIDs,
			CookingTime: entry.Dish.CookingTime,
			Difficulty:  entry.Dish.Difficulty,
			DishType:    entry.Dish.TypeName(),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GuestCount > result[j].GuestCount
	})

	return result
}

// guestKey identifies a guest. Guests with the same name but different IDs
// are counted separately; rows without IDs fall back to the name alone.
type guestKey struct {
	id   int
	name string
}

// CommonGuests returns the guests that appear for more than one of the given
// dishes, ordered by shared dish count and then by name.
func CommonGuests(intersections []models.DishIntersection) []models.CommonGuest {
	counts := make(map[guestKey]int)
	var keys []guestKey

	for _, row := range intersections {
		for i, name := range row.GuestNames {
			key := guestKey{name: name}
			if i < len(row.GuestIDs) {
				key.id = row.GuestIDs[i]
			}
			if _, seen := counts[key]; !seen {
				keys = append(keys, key)
			}
			counts[key]++
		}
	}

	result := []models.CommonGuest{}
	for _, key := range keys {
		if counts[key] > 1 {
			result = append(result, models.CommonGuest{
				GuestID:           key.id,
				Name:              key.name,
				CommonDishesCount: counts[key],
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CommonDishesCount != result[j].CommonDishesCount {
			return result[i].CommonDishesCount > result[j].CommonDishesCount
		}
		return result[i].Name < result[j].Name
	})

	return result
}
