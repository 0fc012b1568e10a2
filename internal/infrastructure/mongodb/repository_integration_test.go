package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expoflow-platform/logistics-service/internal/domain"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer  *tcmongodb.MongoDBContainer
	client          *mongo.Client
	db              *mongo.Database
	projects        *ProjectRepository
	artworks        *ArtworkRepository
	flows           *FlowRepository
	quotes          *QuoteLineRepository
	constraintsRepo *ConstraintsRepository
	ctx             context.Context
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcmongodb.Run(s.ctx, "mongo:6")
	s.Require().NoError(err)
	s.mongoContainer = container

	connStr, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	client, err := mongo.Connect(s.ctx, options.Client().ApplyURI(connStr))
	s.Require().NoError(err)
	s.client = client

	s.Require().NoError(client.Ping(s.ctx, nil))

	s.db = client.Database("logistics_test")
	s.projects = NewProjectRepository(s.db)
	s.artworks = NewArtworkRepository(s.db)
	s.flows = NewFlowRepository(s.db)
	s.quotes = NewQuoteLineRepository(s.db)
	s.constraintsRepo = NewConstraintsRepository(s.db)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Disconnect(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Terminate(s.ctx))
	}
}

func (s *RepositoryIntegrationTestSuite) TearDownTest() {
	s.db.Collection("projects").Drop(s.ctx)
	s.db.Collection("artworks").Drop(s.ctx)
	s.db.Collection("flows").Drop(s.ctx)
	s.db.Collection("quote_lines").Drop(s.ctx)
	s.db.Collection("constraints").Drop(s.ctx)
}

func TestRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}

func (s *RepositoryIntegrationTestSuite) TestProjectRepository_SaveAndFind() {
	project := domain.NewProject("proj-1", "Monet Retrospective", "Paris", "France")

	s.Require().NoError(s.projects.Save(s.ctx, project))

	retrieved, err := s.projects.FindByID(s.ctx, "proj-1")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal("Monet Retrospective", retrieved.Name)
	s.Equal("Paris", retrieved.OrganizerCity)
}

func (s *RepositoryIntegrationTestSuite) TestProjectRepository_FindByID_NotFound() {
	retrieved, err := s.projects.FindByID(s.ctx, "missing")
	s.Require().NoError(err)
	s.Nil(retrieved)
}

func (s *RepositoryIntegrationTestSuite) TestProjectRepository_SaveIsUpsert() {
	project := domain.NewProject("proj-1", "Monet Retrospective", "Paris", "France")
	s.Require().NoError(s.projects.Save(s.ctx, project))

	project.Name = "Monet: The Late Years"
	s.Require().NoError(s.projects.Save(s.ctx, project))

	retrieved, err := s.projects.FindByID(s.ctx, "proj-1")
	s.Require().NoError(err)
	s.Equal("Monet: The Late Years", retrieved.Name)

	count, err := s.db.Collection("projects").CountDocuments(s.ctx, map[string]any{})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *RepositoryIntegrationTestSuite) TestArtworkRepository_SaveAllAndFindByProject() {
	a1, err := domain.NewArtwork("art-1", "proj-1", "Water Lilies", 180, 120, 10, 35, domain.TypologyPainting, 3)
	s.Require().NoError(err)
	a2, err := domain.NewArtwork("art-2", "proj-1", "Bronze Dancer", 60, 40, 40, 80, domain.TypologySculpture, 4)
	s.Require().NoError(err)

	s.Require().NoError(s.artworks.SaveAll(s.ctx, []*domain.Artwork{a1, a2}))

	list, err := s.artworks.FindByProjectID(s.ctx, "proj-1")
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *RepositoryIntegrationTestSuite) TestArtworkRepository_FindByFlowID() {
	a1, err := domain.NewArtwork("art-1", "proj-1", "Water Lilies", 180, 120, 10, 35, domain.TypologyPainting, 3)
	s.Require().NoError(err)
	a1.AssignFlow("flow-1")

	s.Require().NoError(s.artworks.Save(s.ctx, a1))

	list, err := s.artworks.FindByFlowID(s.ctx, "flow-1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("art-1", list[0].ArtworkID)
}

func (s *RepositoryIntegrationTestSuite) TestFlowRepository_RoundTripPreservesEnrichment() {
	flow := domain.NewLogisticsFlow("flow-1", "proj-1", "Lyon", "France", "Paris", "France", domain.FlowTypeDomesticRoad)
	flow.AddArtwork("art-1")
	flow.SetRoute(465, 5.5)
	flow.Transport = &domain.TransportEstimate{
		TotalVolumeM3: 2.4,
		Vehicle:       domain.VehicleLightTruck,
		FlatRate:      450,
		DistanceKm:    465,
		TotalCost:     450,
	}

	s.Require().NoError(s.flows.Save(s.ctx, flow))

	retrieved, err := s.flows.FindByID(s.ctx, "flow-1")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal([]string{"art-1"}, retrieved.ArtworkIDs)
	s.Equal(465.0, retrieved.DistanceKm)
	s.Require().NotNil(retrieved.Transport)
	s.Equal(domain.VehicleLightTruck, retrieved.Transport.Vehicle)
}

func (s *RepositoryIntegrationTestSuite) TestFlowRepository_DeleteByProjectID() {
	f1 := domain.NewLogisticsFlow("flow-1", "proj-1", "Lyon", "France", "Paris", "France", domain.FlowTypeDomesticRoad)
	f2 := domain.NewLogisticsFlow("flow-2", "proj-2", "Berlin", "Germany", "Paris", "France", domain.FlowTypeEURoad)
	s.Require().NoError(s.flows.SaveAll(s.ctx, []*domain.LogisticsFlow{f1, f2}))

	s.Require().NoError(s.flows.DeleteByProjectID(s.ctx, "proj-1"))

	remaining, err := s.flows.FindByProjectID(s.ctx, "proj-1")
	s.Require().NoError(err)
	s.Empty(remaining)

	other, err := s.flows.FindByProjectID(s.ctx, "proj-2")
	s.Require().NoError(err)
	s.Len(other, 1)
}

func (s *RepositoryIntegrationTestSuite) TestQuoteLineRepository_AppliedConstraintsSurvivePersistence() {
	line := domain.NewQuoteLine("line-1", "proj-1", domain.CategoryTransport,
		"Transport Lyon -> Paris", 1, 450, "EUR", domain.SourceEstimation)
	line.FlowID = "flow-1"
	line.ApplyMultiplier(3.0, "security.armored_truck")

	s.Require().NoError(s.quotes.Save(s.ctx, line))

	retrieved, err := s.quotes.FindByID(s.ctx, "line-1")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal(1350.0, retrieved.UnitPrice)
	s.True(retrieved.HasConstraint("security.armored_truck"))

	// Re-applying after a round trip must stay a no-op
	retrieved.ApplyMultiplier(3.0, "security.armored_truck")
	s.Equal(1350.0, retrieved.UnitPrice)
}

func (s *RepositoryIntegrationTestSuite) TestQuoteLineRepository_FindByFlowID() {
	l1 := domain.NewQuoteLine("line-1", "proj-1", domain.CategoryTransport, "Transport", 1, 450, "EUR", domain.SourceEstimation)
	l1.FlowID = "flow-1"
	l2 := domain.NewQuoteLine("line-2", "proj-1", domain.CategoryPacking, "Crate", 1, 900, "EUR", domain.SourceCalculation)
	l2.FlowID = "flow-2"
	s.Require().NoError(s.quotes.SaveAll(s.ctx, []*domain.QuoteLine{l1, l2}))

	list, err := s.quotes.FindByFlowID(s.ctx, "flow-1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("line-1", list[0].LineID)
}

func (s *RepositoryIntegrationTestSuite) TestConstraintsRepository_OneMatrixPerProject() {
	maxHeight := 3.5
	matrix := &domain.ConstraintsMatrix{
		ProjectID: "proj-1",
		Access:    domain.AccessConstraints{MaxHeightM: &maxHeight, TailLiftRequired: true},
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.constraintsRepo.Save(s.ctx, matrix))

	// Second save replaces, never duplicates
	matrix.Access.TailLiftRequired = false
	s.Require().NoError(s.constraintsRepo.Save(s.ctx, matrix))

	retrieved, err := s.constraintsRepo.FindByProjectID(s.ctx, "proj-1")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Require().NotNil(retrieved.Access.MaxHeightM)
	s.Equal(3.5, *retrieved.Access.MaxHeightM)
	s.False(retrieved.Access.TailLiftRequired)

	count, err := s.db.Collection("constraints").CountDocuments(s.ctx, map[string]any{})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}
