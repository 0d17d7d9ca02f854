package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/orders-next/internal/models"

	"gopkg.in/yaml.v3"
)

// CatalogDocument 供应商目录 YAML
type CatalogDocument struct {
	Shop       string            `yaml:"shop"`
	Categories []CatalogCategory `yaml:"categories"`
	Goods      []CatalogGood     `yaml:"goods"`
}

// CatalogCategory 目录分类
type CatalogCategory struct {
	ID   *uint  `yaml:"id"`
	Name string `yaml:"name"`
}

// CatalogGood 目录商品
type CatalogGood struct {
	ID         *uint64           `yaml:"id"`
	Category   *uint             `yaml:"category"`
	Name       string            `yaml:"name"`
	Model      string            `yaml:"model"`
	Price      models.Money      `yaml:"price"`
	PriceRRC   models.Money      `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity"`
	Parameters CatalogParameters `yaml:"parameters"`
}

// CatalogParameter 商品参数（名称, 值）
type CatalogParameter struct {
	Name  string
	Value string
}

// CatalogParameters 保持文档顺序的参数映射
type CatalogParameters []CatalogParameter

// UnmarshalYAML 按文档顺序读取参数映射，标量值一律保存为字符串
func (p *CatalogParameters) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*p = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parameters must be a mapping", node.Line)
	}
	params := make(CatalogParameters, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: parameter must be a scalar pair", key.Line)
		}
		params = append(params, CatalogParameter{Name: key.Value, Value: value.Value})
	}
	*p = params
	return nil
}

// ParseCatalog 解析并校验目录文档；YAML 语法错误归为拉取失败，结构错误归为 ErrCatalogMalformed
func ParseCatalog(r io.Reader) (*CatalogDocument, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFetchFailed, err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFetchFailed, err)
	}
	var doc CatalogDocument
	if root.Kind != 0 {
		if err := root.Decode(&doc); err != nil {
			var typeErr *yaml.TypeError
			if errors.As(err, &typeErr) {
				return nil, &CatalogMalformedError{Field: "document", Reason: strings.Join(typeErr.Errors, "; ")}
			}
			return nil, &CatalogMalformedError{Field: "document", Reason: err.Error()}
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate 校验必填键与分类引用
func (d *CatalogDocument) Validate() error {
	if strings.TrimSpace(d.Shop) == "" {
		return catalogMissing("shop")
	}
	if d.Categories == nil {
		return catalogMissing("categories")
	}
	if d.Goods == nil {
		return catalogMissing("goods")
	}
	known := make(map[uint]struct{}, len(d.Categories))
	for i, category := range d.Categories {
		if category.ID == nil {
			return catalogMissing(fmt.Sprintf("categories[%d].id", i))
		}
		if strings.TrimSpace(category.Name) == "" {
			return catalogMissing(fmt.Sprintf("categories[%d].name", i))
		}
		known[*category.ID] = struct{}{}
	}
	for i, good := range d.Goods {
		switch {
		case good.ID == nil:
			return catalogMissing(fmt.Sprintf("goods[%d].id", i))
		case good.Category == nil:
			return catalogMissing(fmt.Sprintf("goods[%d].category", i))
		case strings.TrimSpace(good.Name) == "":
			return catalogMissing(fmt.Sprintf("goods[%d].name", i))
		}
		if _, ok := known[*good.Category]; !ok {
			return &CatalogMalformedError{Field: fmt.Sprintf("goods[%d].category", i), Reason: "unknown category"}
		}
		if good.Quantity < 0 {
			return &CatalogMalformedError{Field: fmt.Sprintf("goods[%d].quantity", i), Reason: "negative"}
		}
	}
	return nil
}
