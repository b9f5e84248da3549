package federation

import (
	"fmt"
)

func logService(serviceName string) string {
	return fmt.Sprintf("[%s] ->", serviceName)
}
