package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/accmarket/internal/transport/api/middlewares"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID
// устанавливается в middlewares.AuthRequired. В случае, если значения в
// контексте нет или ошибка утверждения типа - вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	value, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := value.(int64)
	if !ok {
		return 0
	}
	return userID
}

// paramInt64 парсит числовой path-параметр. Второе значение false если
// параметр отсутствует или не число.
func paramInt64(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
