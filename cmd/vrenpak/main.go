// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/robalobalubob/vulkanRenderer-sub000/asset"
)

func init() {
	u, err := user.Current()
	if err != nil {
		currentUserName = "unknown"
		return
	}
	currentUserName = u.Name
}

var (
	currentUserName string
	author          = flag.String("author", currentUserName, "Set the author of the package when compressing")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the named file from the archive")
	compress        = flag.String("c", "", "Compress the given file/folder")
	list            = flag.Bool("l", false, "List archive contents")
	dstFile         = flag.String("f", "out.vpk", "Archive file to operate on")
)

func main() {
	var opMade bool
	flag.Parse()

	if *extract != "" && *compress != "" {
		fail(errors.New("only one operation at a time"))
	}

	if *extract != "" {
		opMade = true
		if err := extractFile(); err != nil {
			fail(err)
		}
	}

	if *compress != "" {
		opMade = true
		if err := compressFiles(); err != nil {
			fail(err)
		}
	}

	if *list {
		opMade = true
		if err := listFiles(); err != nil {
			fail(err)
		}
	}

	if !opMade {
		flag.PrintDefaults()
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func compressFiles() error {
	if _, err := os.Stat(*dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	dst, err := os.Create(*dstFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	var filesToCompress []string
	if err := filepath.Walk(*compress, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	}); err != nil {
		return err
	}

	builder, err := asset.NewBuilder(asset.Header{
		Author:      *author,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})
	if err != nil {
		return err
	}

	for _, ftc := range filesToCompress {
		contents, err := os.ReadFile(ftc)
		if err != nil {
			return err
		}
		if err := builder.Add(filepath.ToSlash(ftc), contents); err != nil {
			return err
		}
	}

	_, err = builder.WriteTo(dst)
	return err
}

func extractFile() error {
	src, err := os.Open(*dstFile)
	if err != nil {
		return err
	}
	defer src.Close()

	archive, err := asset.Open(src)
	if err != nil {
		return err
	}

	contents, err := archive.ReadAll(*extract)
	if err != nil {
		return err
	}

	out := filepath.Base(*extract)
	return os.WriteFile(out, contents, 0644)
}

func listFiles() error {
	src, err := os.Open(*dstFile)
	if err != nil {
		return err
	}
	defer src.Close()

	archive, err := asset.Open(src)
	if err != nil {
		return err
	}

	header := archive.Header()
	fmt.Printf("author: %s, version: %d, created: %s\n",
		header.Author, header.Version, time.Unix(header.DateCreated, 0).Format(time.RFC3339))
	for _, name := range archive.Index() {
		entry, err := archive.Stat(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%d -> %d bytes\n", entry.Name, entry.Size, entry.CompressedSize)
	}
	return nil
}
