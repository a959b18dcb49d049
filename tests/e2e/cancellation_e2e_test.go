//go:build e2e
// +build e2e

package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/teamlance/engagements/internal/auth"
	cancellationModel "github.com/teamlance/engagements/internal/cancellation/model"
	projectModel "github.com/teamlance/engagements/internal/project/model"
)

// CancellationE2ETestSuite exercises the unanimous-consent cancellation
// protocol end to end.
type CancellationE2ETestSuite struct {
	E2ETestSuite
}

func TestCancellationE2E(t *testing.T) {
	suite.Run(t, new(CancellationE2ETestSuite))
}

// startedProject builds a started project with the given hired members and
// returns its ID and the member bid IDs keyed by member ID.
func (s *CancellationE2ETestSuite) startedProject(client identity, members ...identity) (string, map[string]string) {
	resp, project := s.createProject(client, &projectModel.CreateProjectRequest{
		Title:       "doomed project",
		Description: "a project the team will vote on",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	projectID := project.ProjectID

	resp, _ = s.projectAction(client, projectID, "publish")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	bids := make(map[string]string, len(members))
	for _, m := range members {
		bids[m[auth.HeaderMemberID]] = s.hire(client, projectID, m, 500)
	}

	resp, _ = s.projectAction(client, projectID, "plan")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp, _ = s.projectAction(client, projectID, "start")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	return projectID, bids
}

func (s *CancellationE2ETestSuite) TestUnanimousConfirmCancelsProject() {
	client := asClient("client-1")
	alice := asMember("alice")
	bob := asMember("bob")

	projectID, _ := s.startedProject(client, alice, bob)

	resp, body := s.doRequest("POST", "/projects/"+projectID+"/cancellation-request", client, map[string]any{
		"reason": "funding fell through",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	resp, req := s.voteOnCancellation(alice, projectID, cancellationModel.VoteConfirm, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(cancellationModel.StatusOpen, req.Status)

	resp, req = s.voteOnCancellation(bob, projectID, cancellationModel.VoteConfirm, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(cancellationModel.StatusCancelled, req.Status)
	s.Equal("cancelled", req.ProjectState)

	_, project := s.getProject(client, projectID)
	s.Require().NotNil(project)
	s.Equal("cancelled", project.State)
}

func (s *CancellationE2ETestSuite) TestSingleRejectResolvesRequest() {
	client := asClient("client-1")
	alice := asMember("alice")
	bob := asMember("bob")

	projectID, _ := s.startedProject(client, alice, bob)

	resp, _ := s.doRequest("POST", "/projects/"+projectID+"/cancellation-request", alice, map[string]any{
		"reason": "I want to move on",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, req := s.voteOnCancellation(bob, projectID, cancellationModel.VoteReject, "we are nearly done")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(cancellationModel.StatusRejected, req.Status)
	s.Equal("started", req.ProjectState)

	// The project stays alive and a fresh request may be opened.
	resp, _ = s.doRequest("POST", "/projects/"+projectID+"/cancellation-request", client, map[string]any{
		"reason": "second attempt",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *CancellationE2ETestSuite) TestWithdrawReleasesTheLock() {
	client := asClient("client-1")
	alice := asMember("alice")

	projectID, _ := s.startedProject(client, alice)

	resp, _ := s.doRequest("POST", "/projects/"+projectID+"/cancellation-request", client, map[string]any{
		"reason": "rethinking scope",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	// Only the creator may withdraw.
	resp, body := s.doRequest("DELETE", "/projects/"+projectID+"/cancellation-request", alice, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
	code, _ := s.parseErrorResponse(body)
	s.Equal("FORBIDDEN", code)

	resp, _ = s.doRequest("DELETE", "/projects/"+projectID+"/cancellation-request", client, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.doRequest("GET", "/projects/"+projectID+"/cancellation-request", client, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *CancellationE2ETestSuite) TestRemovalShrinksConsensusGroup() {
	client := asClient("client-1")
	alice := asMember("alice")
	bob := asMember("bob")

	projectID, bids := s.startedProject(client, alice, bob)

	resp, _ := s.doRequest("POST", "/projects/"+projectID+"/cancellation-request", client, map[string]any{
		"reason": "funding fell through",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, req := s.voteOnCancellation(alice, projectID, cancellationModel.VoteConfirm, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(cancellationModel.StatusOpen, req.Status)

	// Removing the holdout leaves everyone remaining confirmed; the next
	// vote evaluation is unanimous.
	resp, body := s.doRequest("POST", "/projects/"+projectID+"/remove-participant", client, map[string]any{
		"bid_id":        bids["bob"],
		"justification": "unreachable for two weeks",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	// Bob's seat is gone from the roster and he cannot re-bid.
	resp, body = s.doRequest("POST", "/projects/"+projectID+"/bids", bob, map[string]any{
		"proposal": "let me back in",
		"price":    100,
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	code, _ := s.parseErrorResponse(body)
	s.Equal("CONFLICT", code)
}
