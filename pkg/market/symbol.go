package market

// IsValidStockID 判断是否为合法的台股代号
// 台股代号通常为4位数字，部分为5位。
func IsValidStockID(stockID string) bool {
	if len(stockID) != 4 && len(stockID) != 5 {
		return false
	}
	for _, r := range stockID {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ToYahooSymbol 将台股代号转换为Yahoo Finance代码
func ToYahooSymbol(stockID string) string {
	return stockID + ".TW"
}
