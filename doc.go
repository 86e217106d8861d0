// Package isoset prepares and issues requests to a content-addressed
// archive backend on behalf of a build/test pipeline: it resolves which
// local files to send, fans the archive out to one or more backend
// targets, and keeps the resulting digests for later download.
//
// This package is the high-level facade. The layers live in
// subpackages: [selection] resolves include/blacklist sets, [invoke]
// speaks the external binary's argument contract, and [registry] keeps
// (name, target) → digest bookkeeping.
//
// # Quick Start
//
// Archive a directory, excluding compiled artifacts:
//
//	set, err := isoset.BuildSet(root, nil, []string{"."}, []string{"*.pyc"})
//	if err != nil {
//	    return err
//	}
//	c, err := isoset.NewClient()
//	if err != nil {
//	    return err
//	}
//	outcomes, err := c.Archive(ctx, "tests", set,
//	    isoset.Target{Server: "https://isolate.example.com", Namespace: "default-gzip"},
//	)
//
// Each target gets an independent outcome; a failure against one backend
// never blocks the others. Successful digests are recorded under the
// logical name and can be retrieved later:
//
//	step, err := c.DownloadArchive(ctx, "tests", destDir)
//
// The archive storage format, hashing algorithm, and transport all
// belong to the external binary; this package treats digests as opaque
// strings.
package isoset
