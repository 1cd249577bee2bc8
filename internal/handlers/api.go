package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thirdweb-dev/blob-indexer/internal/middleware"
)

func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	Handler(r)
	return r
}

func Handler(r *gin.Engine) {
	r.GET("/health", GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := r.Group("/")
	{
		root.Use(middleware.Authorization)
		root.GET("/status", GetStatus)
		root.GET("/blobs/:id", GetBlob)
		root.GET("/blobs/:id/meta", GetBlobMeta)
		root.GET("/heights/:height/blobs", GetBlobsByHeight)
	}
}
