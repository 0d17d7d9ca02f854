package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// dbDialectName 数据库方言名，未知时按 sqlite 处理
func dbDialectName(db *gorm.DB) string {
	if db != nil && db.Dialector != nil {
		if name := strings.ToLower(strings.TrimSpace(db.Dialector.Name())); name != "" {
			return name
		}
	}
	return "sqlite"
}

// likeOperatorByDialect postgres 用 ILIKE；sqlite 的 LIKE 对 ASCII 不区分大小写
func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	}
	return "LIKE"
}

// containsPattern 包含匹配模式，转义输入中的 % 与 _
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(keyword)) + "%"
}

// buildContainsCondition 单列包含匹配条件，配合 containsPattern 使用
func buildContainsCondition(db *gorm.DB, column string) string {
	return column + " " + likeOperatorByDialect(dbDialectName(db)) + ` ? ESCAPE '\'`
}
