package catalog

import (
	"context"
	"fmt"
	"os"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Load 依設定載入目錄快照；有設定 URL 時走遠端，否則讀本地檔案。
// 所有 I/O 都發生在這裡，核心演算法只拿到建好的快照。
func Load(ctx context.Context, cfg *config.CatalogConfig) (*Catalog, error) {
	var data []byte
	var err error

	if cfg.URL != "" {
		data, err = fetchRemote(ctx, cfg)
	} else {
		data, err = os.ReadFile(cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return Parse(data)
}

// Parse 解析目錄 JSON 並建立快照
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := common.ParseJSONBytes(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog json: %w", err)
	}
	return build(&raw)
}

// fetchRemote 以 HTTP 取得遠端目錄 JSON
func fetchRemote(ctx context.Context, cfg *config.CatalogConfig) ([]byte, error) {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	common.LogInfo("從遠端載入目錄", zap.String("url", cfg.URL))

	resp, err := client.R().SetContext(ctx).Get(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("catalog fetch returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
