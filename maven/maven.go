package maven

import (
	"fmt"
	"strings"

	"github.com/nabinked/kcl-bootstrap/common"
)

// Central is the remote repository all manifest jars are fetched from.
// Package variable so that tests can point it at a local fake.
var Central = "https://search.maven.org/remotecontent?filepath="

// Packages is the manifest: every jar the MultiLangDaemon needs on its
// classpath, in materialization order. Versions move together with the
// amazon-kinesis-client release.
var Packages = []common.Artifact{
	{GroupId: "com.amazonaws", Id: "amazon-kinesis-client", Version: "1.8.10"},
	{GroupId: "com.amazonaws", Id: "aws-java-sdk-dynamodb", Version: "1.11.271"},
	{GroupId: "com.amazonaws", Id: "aws-java-sdk-s3", Version: "1.11.271"},
	{GroupId: "com.amazonaws", Id: "aws-java-sdk-kms", Version: "1.11.271"},
	{GroupId: "com.amazonaws", Id: "aws-java-sdk-core", Version: "1.11.271"},
	{GroupId: "commons-logging", Id: "commons-logging", Version: "1.1.3"},
	{GroupId: "org.apache.httpcomponents", Id: "httpclient", Version: "4.5.4"},
	{GroupId: "org.apache.httpcomponents", Id: "httpcore", Version: "4.4.7"},
	{GroupId: "commons-codec", Id: "commons-codec", Version: "1.10"},
	{GroupId: "software.amazon.ion", Id: "ion-java", Version: "1.0.2"},
	{GroupId: "com.fasterxml.jackson.core", Id: "jackson-databind", Version: "2.6.7.1"},
	{GroupId: "com.fasterxml.jackson.core", Id: "jackson-annotations", Version: "2.6.0"},
	{GroupId: "com.fasterxml.jackson.core", Id: "jackson-core", Version: "2.6.7"},
	{GroupId: "com.fasterxml.jackson.dataformat", Id: "jackson-dataformat-cbor", Version: "2.6.7"},
	{GroupId: "joda-time", Id: "joda-time", Version: "2.8.1"},
	{GroupId: "com.amazonaws", Id: "aws-java-sdk-kinesis", Version: "1.11.271"},
	{GroupId: "com.amazonaws", Id: "aws-java-sdk-cloudwatch", Version: "1.11.271"},
	{GroupId: "com.google.guava", Id: "guava", Version: "18.0"},
	{GroupId: "com.google.protobuf", Id: "protobuf-java", Version: "2.6.1"},
}

// URL is the remote address of an artifact under the Central repository:
// group segments, artifact id, version and file name joined into the
// filepath query.
func URL(a common.Artifact) string {
	segments := append(strings.Split(a.GroupId, "."), a.Id, a.Version, a.FileName())
	return Central + strings.Join(segments, "/")
}

// Validate rejects manifests in which two different identities resolve to
// the same file name: concurrent fetches would then target one destination
// path. Exact duplicates are interchangeable and pass.
func Validate(packages []common.Artifact) error {
	seen := make(map[string]common.Artifact)
	for _, pkg := range packages {
		fileName := pkg.FileName()
		if prev, ok := seen[fileName]; ok && prev != pkg {
			return fmt.Errorf("artifacts %s:%s:%s and %s:%s:%s both resolve to %s",
				prev.GroupId, prev.Id, prev.Version, pkg.GroupId, pkg.Id, pkg.Version, fileName)
		}
		seen[fileName] = pkg
	}
	return nil
}
