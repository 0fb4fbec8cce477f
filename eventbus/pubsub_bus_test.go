package eventbus_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"code.cloudfoundry.org/lager/lagertest"
	"github.com/tedsuo/ifrit"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/codeguardian/guardian/eventbus"
)

var _ = Describe("PubSubBus", func() {
	var (
		logger  *lagertest.TestLogger
		server  *pstest.Server
		conn    *grpc.ClientConn
		client  *pubsub.Client
		bus     *eventbus.PubSubBus
		rec     *recorder
		process ifrit.Process
	)

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("pubsub-bus")
		server = pstest.NewServer()

		var err error
		conn, err = grpc.Dial(server.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		Expect(err).NotTo(HaveOccurred())

		client, err = pubsub.NewClient(context.Background(), "guardian-test", option.WithGRPCConn(conn))
		Expect(err).NotTo(HaveOccurred())

		bus = eventbus.NewPubSubBus(logger, client)
		rec = &recorder{}
		process = ifrit.Invoke(bus.Subscribe(eventbus.TopicCommitAnalysis, eventbus.GroupAnalyzer, rec))
	})

	AfterEach(func() {
		process.Signal(os.Interrupt)
		Eventually(process.Wait()).Should(Receive())

		client.Close()
		conn.Close()
		server.Close()
	})

	It("creates the topic and a subscription per group", func() {
		subscription := client.Subscription("commit-analysis.analyzer")
		exists, err := subscription.Exists(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())
	})

	It("publishes with the key as ordering key and delivers to the subscriber", func() {
		for _, id := range []string{"1", "2", "3"} {
			err := bus.Publish(context.Background(), logger, "abc123", eventbus.CommitAnalysis{AnalysisID: id, CommitID: "abc123"})
			Expect(err).NotTo(HaveOccurred())
		}

		Eventually(rec.commitIDs).Should(Equal([]string{"1", "2", "3"}))

		messages := server.Messages()
		Expect(messages).To(HaveLen(3))
		Expect(messages[0].OrderingKey).To(Equal("abc123"))
	})
})
