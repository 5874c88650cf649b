package main

import "strings"

// pgxURL 把 postgres:// 形式的 DSN 转换为 golang-migrate pgx/v5 驱动使用的 pgx5:// 形式
func pgxURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
