package models

// Daily is the number of trading days used to annualize daily statistics
const Daily = 252

const (
	NextDay       = 1
	NextMonth     = 21
	NextYear      = Daily
	NextFiveYears = Daily * 5
)

// HorizonLabel names a forecast horizon given in trading days
func HorizonLabel(days int) string {
	switch days {
	case NextDay:
		return "Next Day"
	case NextMonth:
		return "Next Month (~21 trading days)"
	case NextYear:
		return "Next Year (~252 trading days)"
	case NextFiveYears:
		return "Next 5 Years (~1260 trading days)"
	default:
		return formatTradingDays(days)
	}
}
