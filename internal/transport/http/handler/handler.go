// Package handler 各资源的 HTTP 模块；每个模块实现 router 的 APIModule / AdminModule / PublicModule。
package handler

import "github.com/gin-gonic/gin"

type idOut struct {
	ID string `json:"id"`
}

type okOut struct {
	Success bool `json:"success"`
}

func done() okOut { return okOut{Success: true} }

type noInput = struct{}

func param(c *gin.Context) string { return c.Param("id") }
