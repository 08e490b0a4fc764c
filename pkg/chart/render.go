package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"StockMate/pkg/market"
)

// 高低点标记配色，红涨蓝跌
var (
	colorHigh = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorLow  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// Renderer 趋势图渲染器
type Renderer struct {
	market    *market.Service
	outputDir string
	logger    zerolog.Logger
}

// NewRenderer 创建趋势图渲染器
// fontPath 指向中文TTF字体；缺失时标题与标注会退回默认字体。
func NewRenderer(marketSvc *market.Service, outputDir, fontPath string, logger zerolog.Logger) (*Renderer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建图片输出目录失败: %w", err)
	}

	log := logger.With().Str("component", "chart").Logger()

	if fontPath != "" {
		if err := registerFont(fontPath); err != nil {
			log.Warn().Err(err).Str("font", fontPath).Msg("中文字体加载失败，使用默认字体")
		}
	}

	return &Renderer{
		market:    marketSvc,
		outputDir: outputDir,
		logger:    log,
	}, nil
}

// registerFont 将TTF字体注册为默认绘图字体
func registerFont(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取字体文件失败: %w", err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("解析字体文件失败: %w", err)
	}

	face := font.Face{
		Font: font.Font{
			Typeface: "NotoSansTC",
			Style:    xfont.StyleNormal,
			Weight:   xfont.WeightNormal,
		},
		Face: parsed,
	}
	font.DefaultCache.Add([]font.Face{face})
	plot.DefaultFont = face.Font
	plotter.DefaultFont = face.Font
	return nil
}

// Filename 趋势图文件名，以代号固定命名
// 同一代号的并发渲染会互相覆盖，这是既有限制。
func Filename(stockID string) string {
	return fmt.Sprintf("%s_trend.png", stockID)
}

// RenderTrend 渲染最近N日收盘趋势图并返回本地路径
// 历史数据不可得或渲染失败时返回 false，不留下半成品文件。
func (r *Renderer) RenderTrend(stockID string, days int) (string, bool) {
	if days <= 0 {
		days = 5
	}

	history, ok := r.market.History(stockID, days)
	if !ok || len(history) == 0 {
		return "", false
	}

	// 最高/最低收盘，同值取最先出现的一笔
	maxIdx, minIdx := 0, 0
	for i, point := range history {
		if point.Close > history[maxIdx].Close {
			maxIdx = i
		}
		if point.Close < history[minIdx].Close {
			minIdx = i
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s 最近 %d 日收盤價", stockID, days)
	p.X.Label.Text = "日期"
	p.Y.Label.Text = "收盤價(元)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02"}
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(history))
	for i, point := range history {
		xys[i] = plotter.XY{X: float64(point.Date.Unix()), Y: point.Close}
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		r.logger.Error().Err(err).Str("stock_id", stockID).Msg("构建折线失败")
		return "", false
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	if err := r.addExtremeMarks(p, xys, maxIdx, minIdx); err != nil {
		r.logger.Error().Err(err).Str("stock_id", stockID).Msg("标注高低点失败")
		return "", false
	}

	// 先写临时文件再改名，渲染失败不会污染既有图片
	finalPath := filepath.Join(r.outputDir, Filename(stockID))
	tmpPath := filepath.Join(r.outputDir, fmt.Sprintf("%s_trend.tmp.png", stockID))

	if err := p.Save(8*vg.Inch, 4*vg.Inch, tmpPath); err != nil {
		os.Remove(tmpPath)
		r.logger.Error().Err(err).Str("stock_id", stockID).Msg("保存趋势图失败")
		return "", false
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		r.logger.Error().Err(err).Str("stock_id", stockID).Msg("移动趋势图失败")
		return "", false
	}

	return finalPath, true
}

// addExtremeMarks 标注最高与最低收盘点
func (r *Renderer) addExtremeMarks(p *plot.Plot, xys plotter.XYs, maxIdx, minIdx int) error {
	high, err := plotter.NewScatter(plotter.XYs{xys[maxIdx]})
	if err != nil {
		return err
	}
	high.GlyphStyle = draw.GlyphStyle{Color: colorHigh, Radius: vg.Points(4), Shape: draw.PyramidGlyph{}}

	low, err := plotter.NewScatter(plotter.XYs{xys[minIdx]})
	if err != nil {
		return err
	}
	low.GlyphStyle = draw.GlyphStyle{Color: colorLow, Radius: vg.Points(4), Shape: draw.PyramidGlyph{}}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{xys[maxIdx], xys[minIdx]},
		Labels: []string{
			fmt.Sprintf("最高 %.2f", xys[maxIdx].Y),
			fmt.Sprintf("最低 %.2f", xys[minIdx].Y),
		},
	})
	if err != nil {
		return err
	}

	p.Add(high, low, labels)
	return nil
}
