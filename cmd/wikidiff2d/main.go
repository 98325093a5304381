// Command wikidiff2d runs the paste-and-diff HTTP service: upload two
// files, get back a link to their wikidiff2 HTML table diff.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.etcd.io/bbolt"

	"github.com/wmde/wikidiff2/internal/db"
	"github.com/wmde/wikidiff2/internal/httpserver"
	"github.com/wmde/wikidiff2/internal/storage"
)

type optsType struct {
	listenAddr     string
	publicURL      string
	dbFile         string
	s3Endpoint     string
	s3AccessKey    string
	s3AccessSecret string
	s3Bucket       string
	cacheMaxBytes  uint64
}

func defaultEnv(s, def string) string {
	v, ok := os.LookupEnv(s)
	if ok {
		return v
	}
	return def
}

func stringVar(p *string, fg, defaultValue, usage string) {
	ev := strings.ReplaceAll(strings.ToUpper(fg), "-", "_")
	flag.StringVar(p, fg, defaultEnv(ev, defaultValue), usage+". env var: "+ev)
}

func main() {
	var opts optsType
	stringVar(&opts.listenAddr, "listen-addr", ":18844", "listen address for the web server")
	stringVar(&opts.publicURL, "public-url", "http://localhost:18844", "url for the server, used in the curl example and generated links")
	stringVar(&opts.dbFile, "db-file", "data/db.bolt", "the file used for the database. "+
		"this will be a cache (if used together with s3) or the permanent database")
	stringVar(&opts.s3Endpoint, "s3-endpoint", "", "s3 endpoint; if unset, pastes are stored directly in db-file")
	stringVar(&opts.s3AccessKey, "s3-access-key", "", "s3 access key")
	stringVar(&opts.s3AccessSecret, "s3-access-secret", "", "s3 access secret")
	stringVar(&opts.s3Bucket, "s3-bucket", "wikidiff2", "s3 bucket")
	flag.Uint64Var(&opts.cacheMaxBytes, "cache-max-bytes", 64<<20, "max size in bytes of the local cache in front of s3 storage")
	flag.Parse()

	bdb, err := bbolt.Open(opts.dbFile, 0o600, nil)
	if err != nil {
		panic(fmt.Errorf("db open error: %w", err))
	}

	srv := &httpserver.Server{
		PublicURL: opts.publicURL,
		DB:        &db.DB{DB: bdb},
	}

	if opts.s3Endpoint == "" {
		srv.Storage = storage.NewDBStorage(bdb, []byte("storage"))
	} else {
		minioClient, err := minio.New(opts.s3Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(opts.s3AccessKey, opts.s3AccessSecret, ""),
			Secure: true,
		})
		if err != nil {
			panic(fmt.Errorf("minio init error: %w", err))
		}
		permanent := &storage.MinioStorage{Client: minioClient, BucketName: opts.s3Bucket}
		cache := storage.NewDBStorage(bdb, []byte("cache")).(storage.ListStorage)
		cached, err := storage.NewCachedStorage(cache, permanent, opts.cacheMaxBytes)
		if err != nil {
			panic(fmt.Errorf("cache init error: %w", err))
		}
		srv.Storage = cached
	}

	fmt.Println("listening on", opts.listenAddr)
	panic(http.ListenAndServe(opts.listenAddr, srv.Router()))
}
