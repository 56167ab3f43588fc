package pathtmpl

import (
	"fmt"
	"strconv"
	"time"

	"extrafiles/internal/textutil"
)

// FormatValue renders a metadata value as template text. Byte slices are
// decoded as file names are.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return textutil.DecodeName(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func sanitize(value string) string {
	return textutil.SanitizeComponent(value)
}
