package download_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/download"
	"github.com/c00ler/maven-resolver/groupscheduler"
	"github.com/c00ler/maven-resolver/pathpolicy"
)

type fakeLRM struct {
	path        string
	pathErr     error
	registered  []artifact.Registration
	registerErr error
}

func (l *fakeLRM) Find(context.Context, *artifact.Session, artifact.Artifact, []*artifact.RepositorySpec) (artifact.LocalArtifactResult, error) {
	return artifact.LocalArtifactResult{}, nil
}

func (l *fakeLRM) Add(_ context.Context, _ *artifact.Session, registration artifact.Registration) error {
	if l.registerErr != nil {
		return l.registerErr
	}
	l.registered = append(l.registered, registration)
	return nil
}

func (l *fakeLRM) PathForRemoteArtifact(artifact.Artifact, *artifact.RepositorySpec, string) (string, error) {
	return l.path, l.pathErr
}

func (l *fakeLRM) Repository() *artifact.RepositorySpec { return nil }

type staticPolicyManager struct {
	policy artifact.RepositoryPolicy
}

func (m staticPolicyManager) PolicyFor(*artifact.RepositorySpec, bool) artifact.RepositoryPolicy {
	return m.policy
}

type fakeConnector struct {
	getErr   error
	failWith func(d *artifact.Download) error
}

func (c *fakeConnector) Get(_ context.Context, downloads []*artifact.Download) error {
	if c.getErr != nil {
		return c.getErr
	}
	for _, d := range downloads {
		if c.failWith != nil {
			d.Exception = c.failWith(d)
		}
		if d.Exception == nil {
			_ = os.WriteFile(d.Destination, []byte("downloaded"), 0o644)
		}
	}
	return nil
}

func (c *fakeConnector) Close(context.Context) error { return nil }

type fakeConnectorProvider struct {
	connector artifact.Connector
	err       error
}

func (p fakeConnectorProvider) NewConnector(context.Context, *artifact.Session, *artifact.RepositorySpec) (artifact.Connector, error) {
	return p.connector, p.err
}

type recordingDispatcher struct {
	events []artifact.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event artifact.Event) {
	d.events = append(d.events, event)
}

func newGroup(t *testing.T) (*groupscheduler.Group, *groupscheduler.Item, *artifact.ArtifactResult) {
	t.Helper()

	repo := &artifact.RepositorySpec{ID: "central", URL: "https://repo"}
	request := &artifact.ArtifactRequest{
		Artifact: artifact.Artifact{Coordinate: artifact.Coordinate{Group: "g", ID: "a", Version: "1.0"}},
		Context:  "default",
	}
	result := &artifact.ArtifactResult{Request: request}
	resolved := false

	item := groupscheduler.Item{
		Artifact: request.Artifact,
		Request:  request,
		Result:   result,
		Resolved: &resolved,
	}

	group := &groupscheduler.Group{Repository: repo, Items: []groupscheduler.Item{item}}
	return group, &group.Items[0], result
}

func TestExecuteGroupSuccessfulDownload(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "a-1.0.jar")

	group, item, result := newGroup(t)

	lrm := &fakeLRM{path: dest}
	dispatcher := &recordingDispatcher{}
	coord := &download.Coordinator{
		Connectors:        fakeConnectorProvider{connector: &fakeConnector{}},
		RepositoryManager: staticPolicyManager{policy: artifact.RepositoryPolicy{Enabled: true}},
		LRM:               lrm,
		Dispatcher:        dispatcher,
		PathPolicy:        pathpolicy.Config{SnapshotNormalization: true},
	}

	err := coord.ExecuteGroup(context.Background(), &artifact.Session{}, group)
	require.NoError(t, err)

	require.True(t, *item.Resolved)
	require.NotNil(t, result.Artifact)
	require.Equal(t, dest, result.Artifact.File)
	require.Empty(t, result.Exceptions)
	require.Len(t, lrm.registered, 1)

	var downloading, downloaded int
	for _, e := range dispatcher.events {
		switch e.Type {
		case artifact.EventDownloading:
			downloading++
		case artifact.EventDownloaded:
			downloaded++
		}
	}
	require.Equal(t, 1, downloading)
	require.Equal(t, 1, downloaded)
}

func TestExecuteGroupNoConnectorSetsTransferError(t *testing.T) {
	group, item, result := newGroup(t)

	coord := &download.Coordinator{
		Connectors:        fakeConnectorProvider{err: errors.New("unreachable")},
		RepositoryManager: staticPolicyManager{policy: artifact.RepositoryPolicy{Enabled: true}},
		LRM:               &fakeLRM{path: "/irrelevant"},
	}

	err := coord.ExecuteGroup(context.Background(), &artifact.Session{}, group)
	require.NoError(t, err)

	require.False(t, *item.Resolved)
	require.Nil(t, result.Artifact)
	require.Len(t, result.Exceptions, 1)
	require.ErrorIs(t, result.Exceptions[0], artifact.ErrNoConnector)
}

func TestExecuteGroupConnectorFailureRecordsException(t *testing.T) {
	group, item, result := newGroup(t)

	connector := &fakeConnector{failWith: func(*artifact.Download) error {
		return &artifact.TransferError{Cause: errors.New("404")}
	}}
	coord := &download.Coordinator{
		Connectors:        fakeConnectorProvider{connector: connector},
		RepositoryManager: staticPolicyManager{policy: artifact.RepositoryPolicy{Enabled: true}},
		LRM:               &fakeLRM{path: "/irrelevant"},
	}

	err := coord.ExecuteGroup(context.Background(), &artifact.Session{}, group)
	require.NoError(t, err)

	require.False(t, *item.Resolved)
	require.Nil(t, result.Artifact)
	require.Len(t, result.Exceptions, 1)
}

func TestExecuteGroupSkipsAlreadyResolvedItems(t *testing.T) {
	group, item, result := newGroup(t)
	*item.Resolved = true

	coord := &download.Coordinator{
		Connectors:        fakeConnectorProvider{connector: &fakeConnector{}},
		RepositoryManager: staticPolicyManager{policy: artifact.RepositoryPolicy{Enabled: true}},
		LRM:               &fakeLRM{path: "/irrelevant"},
	}

	err := coord.ExecuteGroup(context.Background(), &artifact.Session{}, group)
	require.NoError(t, err)
	require.Nil(t, result.Artifact)
}

func TestExecuteGroupsRunsAllGroups(t *testing.T) {
	dir := t.TempDir()
	group1, _, result1 := newGroup(t)
	group2, _, result2 := newGroup(t)

	coord := &download.Coordinator{
		Connectors:        fakeConnectorProvider{connector: &fakeConnector{}},
		RepositoryManager: staticPolicyManager{policy: artifact.RepositoryPolicy{Enabled: true}},
		LRM:               &fakeLRM{path: filepath.Join(dir, "computed.jar")},
		GoRoutineLimit:    2,
	}

	err := coord.ExecuteGroups(context.Background(), &artifact.Session{}, []*groupscheduler.Group{group1, group2})
	require.NoError(t, err)
	require.True(t, result1.Successful())
	require.True(t, result2.Successful())
}
