package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		cmd, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, TypeLookup, cmd.Type)
		assert.Equal(t, ModeSingle, cmd.Mode)
		assert.Empty(t, cmd.StockIDs)
		assert.Equal(t, 5, cmd.Days)
	}
}

func TestParse_MultiLookupFiltersInvalid(t *testing.T) {
	cmd, err := Parse("查 2330 abc 2317")
	require.NoError(t, err)
	assert.Equal(t, TypeLookup, cmd.Type)
	assert.Equal(t, ModeMulti, cmd.Mode)
	assert.Equal(t, []string{"2330", "2317"}, cmd.StockIDs)
	assert.Equal(t, 5, cmd.Days)
}

func TestParse_MultiLookupAllInvalid(t *testing.T) {
	cmd, err := Parse("查 abc xyz")
	require.NoError(t, err)
	assert.Equal(t, ModeMulti, cmd.Mode)
	assert.Empty(t, cmd.StockIDs)
}

func TestParse_SingleLookup(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		stockID  string
		wantDays int
	}{
		{"仅代号", "2330", "2330", 5},
		{"30天窗口", "2330 30天", "2330", 30},
		{"30日窗口", "2330 30日", "2330", 30},
		{"月線窗口", "2330 月線", "2330", 30},
		{"纯数字30", "2330 30", "2330", 30},
		{"未知第二词", "2330 hello", "2330", 5},
		// 单股模式解析时不校验代号合法性，由回覆组装层处理
		{"非法代号照样进入单股模式", "abc", "abc", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, TypeLookup, cmd.Type)
			assert.Equal(t, ModeSingle, cmd.Mode)
			assert.Equal(t, []string{tt.stockID}, cmd.StockIDs)
			assert.Equal(t, tt.wantDays, cmd.Days)
		})
	}
}

func TestParse_AlertSet(t *testing.T) {
	cmd, err := Parse("設定 2330 > 800")
	require.NoError(t, err)
	require.Equal(t, TypeAlertSet, cmd.Type)
	require.NotNil(t, cmd.Alert)
	assert.Equal(t, "2330", cmd.Alert.StockID)
	assert.Equal(t, ">", cmd.Alert.Operator)
	assert.Equal(t, 800.0, cmd.Alert.Target)
}

func TestParse_AlertSetVariants(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		operator string
		target   float64
	}{
		{"小于", "設定 2330 < 500", "<", 500},
		{"小数目标价", "設定 2330 > 812.5", ">", 812.5},
		{"运算符无空白", "設定 2330>800", ">", 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.text)
			require.NoError(t, err)
			require.Equal(t, TypeAlertSet, cmd.Type)
			assert.Equal(t, tt.operator, cmd.Alert.Operator)
			assert.Equal(t, tt.target, cmd.Alert.Target)
		})
	}
}

func TestParse_AlertSetFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"缺少参数", "設定 abc"},
		{"缺少目标价", "設定 2330 >"},
		{"非法运算符", "設定 2330 = 800"},
		{"代号长度不合法", "設定 233 > 800"},
		{"仅关键字", "設定"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.text)
			assert.Nil(t, cmd)
			require.Error(t, err)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParse_PrecedenceOrder(t *testing.T) {
	// 多股关键字优先于单股兜底
	cmd, err := Parse("查 2330")
	require.NoError(t, err)
	assert.Equal(t, ModeMulti, cmd.Mode)

	// 警示前缀优先于单股兜底
	_, err = Parse("設定啥")
	require.Error(t, err)
}
