// Command avatar uploads an image as the caller's profile picture.
//
//	avatar -api http://localhost:8080 -token $(token -user u1) -file me.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/client/avatar"
)

func main() {
	api := flag.String("api", "http://localhost:8080", "learnfeed HTTP API base URL")
	token := flag.String("token", os.Getenv("LEARNFEED_TOKEN"), "bearer token")
	file := flag.String("file", "", "image to upload")
	flag.Parse()

	if *token == "" || *file == "" {
		log.Fatal("-token and -file are required")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(*file))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	u := avatar.NewUploader(*api, *token, &http.Client{Timeout: 30 * time.Second})
	key, err := u.Upload(ctx, contentType, f)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(key)
}
