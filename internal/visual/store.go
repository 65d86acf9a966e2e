// Package visual сохраняет скриншоты для визуальной проверки. Пиксельного
// сравнения нет: эталон создается при первом снимке и обновляется по
// запросу.
package visual

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"siteE2E/internal/browser"
)

const (
	baselineDir = "baseline"
	actualDir   = "actual"
	diffDir     = "diff"

	navigationHeight = 150
	footerHeight     = 600
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var ErrBadName = errors.New("недопустимое имя скриншота")

type Store struct {
	fs  afero.Fs
	dir string
	log *zap.Logger
}

func New(fs afero.Fs, dir string, log *zap.Logger) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{fs: fs, dir: dir, log: log}
}

func (s *Store) Dir() string {
	return s.dir
}

// Init создает каталоги эталонов, текущих снимков и различий.
func (s *Store) Init() error {
	for _, sub := range []string{"", baselineDir, actualDir, diffDir} {
		if err := s.fs.MkdirAll(filepath.Join(s.dir, sub), 0o755); err != nil {
			return fmt.Errorf("создание каталога скриншотов: %w", err)
		}
	}
	return nil
}

func (s *Store) BaselinePath(name string) string {
	return filepath.Join(s.dir, baselineDir, name+".png")
}

func (s *Store) ActualPath(name string) string {
	return filepath.Join(s.dir, actualDir, name+".png")
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".png")
}

func checkName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%q: %w", name, ErrBadName)
	}
	return nil
}

// CaptureElement снимает элемент в actual/. Если эталона нет или update
// установлен, снимок копируется в baseline/. Возвращает, есть ли эталон.
func (s *Store) CaptureElement(ctx context.Context, loc browser.Locator, name string, update bool) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	if err := s.Init(); err != nil {
		return false, err
	}

	png, err := loc.Screenshot(ctx)
	if err != nil {
		return false, err
	}
	actual := s.ActualPath(name)
	if err := afero.WriteFile(s.fs, actual, png, 0o644); err != nil {
		return false, fmt.Errorf("запись %s: %w", actual, err)
	}

	baseline := s.BaselinePath(name)
	exists, err := afero.Exists(s.fs, baseline)
	if err != nil {
		return false, err
	}
	if update || !exists {
		if err := afero.WriteFile(s.fs, baseline, png, 0o644); err != nil {
			return false, fmt.Errorf("запись эталона %s: %w", baseline, err)
		}
		s.log.Info("эталон скриншота сохранен", zap.String("name", name), zap.Bool("update", update))
	}
	return true, nil
}

// CaptureFullPage снимает страницу целиком и возвращает путь к файлу.
func (s *Store) CaptureFullPage(ctx context.Context, page browser.Page, name string) (string, error) {
	return s.capture(ctx, page, name, browser.ScreenshotOptions{FullPage: true})
}

// CaptureClip снимает прямоугольную область окна.
func (s *Store) CaptureClip(ctx context.Context, page browser.Page, name string, clip browser.Rect) (string, error) {
	if clip.Width <= 0 || clip.Height <= 0 {
		return "", fmt.Errorf("пустая область скриншота %s: %vx%v", name, clip.Width, clip.Height)
	}
	return s.capture(ctx, page, name, browser.ScreenshotOptions{Clip: &clip})
}

func (s *Store) capture(ctx context.Context, page browser.Page, name string, opts browser.ScreenshotOptions) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := s.Init(); err != nil {
		return "", err
	}
	png, err := page.Screenshot(ctx, opts)
	if err != nil {
		return "", err
	}
	path := s.path(name)
	if err := afero.WriteFile(s.fs, path, png, 0o644); err != nil {
		return "", fmt.Errorf("запись %s: %w", path, err)
	}
	s.log.Debug("скриншот сохранен", zap.String("path", path), zap.Int("bytes", len(png)))
	return path, nil
}

// NavigationClip - полоса шапки сверху окна.
func NavigationClip(page browser.Page) browser.Rect {
	w, _ := page.ViewportSize()
	return browser.Rect{X: 0, Y: 0, Width: float64(w), Height: navigationHeight}
}

// FooterClip - нижние 600 пикселей окна после прокрутки к концу страницы.
func FooterClip(page browser.Page) browser.Rect {
	w, h := page.ViewportSize()
	y := float64(h - footerHeight)
	height := float64(footerHeight)
	if y < 0 {
		height += y
		y = 0
	}
	return browser.Rect{X: 0, Y: y, Width: float64(w), Height: height}
}
