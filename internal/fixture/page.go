package fixture

import (
	"context"
	"fmt"

	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
)

// Страницы с поверхностью предпросмотра.
const (
	PagePath1 = "pages/surfaceTest/surfaceTest"
	PagePath2 = "pages/surfaceTest2/surfaceTest2"
)

// PageNavigator чередует две страницы перед каждым кейсом.
//
// Платформа не даёт повторно использовать поверхность предпросмотра
// между кейсами, поэтому каждый кейс получает свежую страницу.
type PageNavigator struct {
	router media.PageRouter
	pageID int
}

// NewPageNavigator создаёт навигатор, начиная с первой страницы.
func NewPageNavigator(router media.PageRouter) *PageNavigator {
	return &PageNavigator{router: router}
}

// PageID возвращает номер страницы, которая откроется следующей (0 или 1).
func (n *PageNavigator) PageID() int {
	return n.pageID
}

// Next открывает следующую страницу, переключает PageID
// и возвращает id поверхности предпросмотра.
func (n *PageNavigator) Next(ctx context.Context) (string, error) {
	page := PagePath1
	if n.pageID == 1 {
		page = PagePath2
	}

	surfaceID, err := n.router.Push(ctx, page)
	if err != nil {
		return "", fmt.Errorf("open page %s: %w", page, err)
	}
	n.pageID = (n.pageID + 1) % 2
	return surfaceID, nil
}

// Clear очищает стек страниц.
func (n *PageNavigator) Clear(ctx context.Context) error {
	return n.router.Clear(ctx)
}
