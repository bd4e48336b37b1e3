package ledger

import "petcore/pkg/domain"

// UserAchievements returns the ids of every achievement the holder earned,
// in catalog order.
func UserAchievements(view domain.TransactionView, holder string) []int {
	earned := make([]int, 0, domain.TotalAchievements)
	for id := 0; id < domain.TotalAchievements; id++ {
		if view.HasBadge(domain.BadgeKey{Holder: holder, Achievement: id}) {
			earned = append(earned, id)
		}
	}
	return earned
}

// PetAchievements returns the ids of every badge recorded against the pet,
// in catalog order.
func PetAchievements(view domain.TransactionView, tokenID uint64) []int {
	earned := make([]int, 0, domain.TotalAchievements)
	for id := 0; id < domain.TotalAchievements; id++ {
		if view.HasPetBadge(domain.PetBadgeKey{TokenID: tokenID, Achievement: id}) {
			earned = append(earned, id)
		}
	}
	return earned
}

// AchievementDetails returns the catalog entry for the given id.
func AchievementDetails(view domain.TransactionView, achievementID int) (domain.Achievement, error) {
	if achievementID < 0 || achievementID >= domain.TotalAchievements {
		return domain.Achievement{}, domain.ErrInvalidAchievementID
	}
	achievement, ok := view.FindAchievement(achievementID)
	if !ok {
		return domain.Achievement{}, domain.ErrNotInitialized
	}
	return achievement, nil
}

// AllAchievements returns the full catalog in id order.
func AllAchievements(view domain.TransactionView) []domain.Achievement {
	return view.ListAchievements()
}

// HasEarned reports whether the holder earned the achievement.
func HasEarned(view domain.TransactionView, holder string, achievementID int) bool {
	return view.HasBadge(domain.BadgeKey{Holder: holder, Achievement: achievementID})
}

// BalanceOf returns the holder's badge balance for one achievement.
func BalanceOf(view domain.TransactionView, holder string, achievementID int) uint64 {
	return view.BadgeBalance(domain.BadgeKey{Holder: holder, Achievement: achievementID})
}

// TotalSupply returns the global minted count for one achievement.
func TotalSupply(view domain.TransactionView, achievementID int) uint64 {
	return view.BadgeSupply(achievementID)
}

// UserAchievementCount returns how many distinct achievements the holder
// earned.
func UserAchievementCount(view domain.TransactionView, holder string) int {
	return len(UserAchievements(view, holder))
}
