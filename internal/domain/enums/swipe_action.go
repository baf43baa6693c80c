package enums

type SwipeAction string

const (
	SwipeActionLike SwipeAction = "like"
	SwipeActionPass SwipeAction = "pass"
)

func ParseSwipeAction(value string) (SwipeAction, bool) {
	switch SwipeAction(value) {
	case SwipeActionLike, SwipeActionPass:
		return SwipeAction(value), true
	default:
		return "", false
	}
}
