package systems

import (
	"fmt"
	"strings"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/pkg/logger"
	"github.com/sirupsen/logrus"
)

// TransparencyFunc - оракул прозрачности: пропускает ли клетка свет.
// Вызывается только с координатами внутри границ, в любом порядке.
type TransparencyFunc func(c domain.Coord) bool

// Strategy - алгоритм расчета поля зрения.
// Реализации не хранят состояния между вызовами и рассчитывают на валидный ввод
// (проверку делает ComputeVisible).
type Strategy interface {
	Name() string
	Compute(origin domain.Coord, radius int, isTransparent TransparencyFunc, bounds domain.Bounds) *VisibleSet
}

// Имена стратегий для конфига
const (
	StrategyShadowCast = "shadowcast"
	StrategyRaySweep   = "raysweep"
)

// StrategyByName возвращает стратегию по имени из конфига
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case StrategyShadowCast, "":
		return ShadowCast{}, nil
	case StrategyRaySweep:
		return RaySweep{}, nil
	}
	return nil, fmt.Errorf("unknown fov strategy %q", name)
}

// ComputeVisible проверяет предусловия и считает видимые клетки выбранной стратегией.
// Нарушение предусловий - ошибка вызывающего, возвращается сразу.
func ComputeVisible(strategy Strategy, origin domain.Coord, radius int, isTransparent TransparencyFunc, bounds domain.Bounds) (*VisibleSet, error) {
	if !bounds.Valid() {
		return nil, fmt.Errorf("compute fov %dx%d: %w", bounds.Rows, bounds.Cols, domain.ErrInvalidBounds)
	}
	if !bounds.Contains(origin) {
		return nil, fmt.Errorf("compute fov from %s: %w", origin, domain.ErrOutOfBounds)
	}
	if radius < 0 {
		return nil, fmt.Errorf("compute fov radius %d: %w", radius, domain.ErrNegativeRadius)
	}

	visible := strategy.Compute(origin, radius, isTransparent, bounds)

	logger.Log.WithFields(logrus.Fields{
		"component":     "fov_system",
		"strategy":      strategy.Name(),
		"origin":        origin,
		"radius":        radius,
		"visible_tiles": visible.Len(),
	}).Debug("FOV calculation complete.")

	return visible, nil
}
