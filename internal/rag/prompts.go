package rag

const answerPrompt = `You are a careful shopping assistant. Answer the question about %s using only the customer review excerpts below. If the reviews do not cover the question, say so plainly instead of guessing.

Review excerpts:
%s

Question: %s

Answer:`

const summaryPrompt = `You are a careful shopping assistant. Using only the customer review excerpts below, write a concise summary of what buyers think about %s. Cover the most common praises and complaints. Do not invent details the excerpts do not support.

Review excerpts:
%s

Summary:`

const ratingsPrompt = `You are a careful shopping assistant. Using only the customer review excerpts below, rate the main components or aspects of %s that reviewers discuss (for example battery, display, build quality). Use a 1-5 scale and include an overall rating.

Respond with JSON only, in exactly this shape:
{"components": [{"name": "...", "rating": "..."}], "overall_rating": "..."}

Review excerpts:
%s

JSON:`
