package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// parseWeekParam 解析路径中的周序号；非整数的路径视为不存在的路由
func parseWeekParam(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Param("week_number"))
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, http.StatusNotFound, "week not found")
		return 0, false
	}
	return n, true
}

// flexInt 接受 JSON 数字或数字字符串，例如 3、3.0、"3"
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return errors.New("value is null")
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return errors.New("value is not an integer")
		}
		*f = flexInt(n)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	if n, err := number.Int64(); err == nil {
		*f = flexInt(n)
		return nil
	}
	value, err := number.Float64()
	if err != nil || value != float64(int64(value)) {
		return errors.New("value is not an integer")
	}
	*f = flexInt(int64(value))
	return nil
}

// flexString 接受任意 JSON 值：字符串原样保留，其它值保留其 JSON 文本，null 为空串
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*f = flexString(text)
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return err
	}
	*f = flexString(compact.String())
	return nil
}

// decodeObject 将请求体解码为 JSON 对象，数字保留为 json.Number
func decodeObject(c *gin.Context) (map[string]any, error) {
	if c.Request.Body == nil {
		return nil, errors.New("empty body")
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()

	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
