package command

import (
	"regexp"
	"strconv"
	"strings"

	"StockMate/pkg/market"
)

// Type 指令类型
type Type string

const (
	TypeLookup   Type = "lookup"
	TypeAlertSet Type = "alert_set"
)

// Mode 查询模式
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// 指令关键字
const (
	keywordMulti    = "查"
	keywordAlertSet = "設定"
)

// DefaultDays 默认查询天数
const DefaultDays = 5

// monthKeywords 月线同义词，命中时窗口扩为30日
var monthKeywords = map[string]bool{
	"30":  true,
	"30天": true,
	"30日": true,
	"月線":  true,
}

// alertPattern 警示设定语法：設定 <代号> <比较符> <目标价>
var alertPattern = regexp.MustCompile(`^設定\s+(\d+)\s*([<>])\s*(\d+\.?\d*)`)

// AlertRequest 警示设定参数
type AlertRequest struct {
	StockID  string
	Operator string
	Target   float64
}

// Command 解析后的用户指令
type Command struct {
	Type     Type
	Mode     Mode
	StockIDs []string
	Days     int
	Alert    *AlertRequest
}

// ParseError 警示设定语法错误
// 与无法识别的输入不同：用户明确想设定警示但格式不对，
// 调用方应回覆格式范例。
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "指令解析失败: " + e.Reason
}

// Parse 将用户输入分类为查询或警示设定指令
// 规则按优先级排列：多股查询关键字、警示设定前缀、单股查询兜底。
// 无状态且确定性，相同输入永远得到相同结果。
func Parse(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))

	result := &Command{
		Type:     TypeLookup,
		Mode:     ModeSingle,
		StockIDs: []string{},
		Days:     DefaultDays,
	}

	if len(parts) == 0 {
		return result, nil
	}

	// 多股查询：查 2330 2317
	if parts[0] == keywordMulti {
		result.Mode = ModeMulti
		for _, candidate := range parts[1:] {
			if market.IsValidStockID(candidate) {
				result.StockIDs = append(result.StockIDs, candidate)
			}
		}
		return result, nil
	}

	// 价格警示：設定 2330 > 800
	if strings.HasPrefix(parts[0], keywordAlertSet) {
		return parseAlertSet(strings.TrimSpace(text))
	}

	// 单股查询：2330 或 2330 30天
	result.StockIDs = []string{parts[0]}
	if len(parts) > 1 && monthKeywords[parts[1]] {
		result.Days = 30
	}
	return result, nil
}

// parseAlertSet 解析警示设定指令
func parseAlertSet(text string) (*Command, error) {
	match := alertPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, &ParseError{Reason: "格式不符"}
	}

	stockID := match[1]
	if !market.IsValidStockID(stockID) {
		return nil, &ParseError{Reason: "股票代号错误"}
	}

	target, err := strconv.ParseFloat(match[3], 64)
	if err != nil {
		return nil, &ParseError{Reason: "目标价无法解析"}
	}

	return &Command{
		Type: TypeAlertSet,
		Alert: &AlertRequest{
			StockID:  stockID,
			Operator: match[2],
			Target:   target,
		},
	}, nil
}
